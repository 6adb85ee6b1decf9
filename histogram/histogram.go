// Package histogram bins charge deposits into equal-width bins.
package histogram

import (
	"math"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrEmpty       = errors.New("histogram: no data")
	ErrInvalidBins = errors.New("histogram: bin count must be positive")
)

// Histogram holds the counts of len(Edges)-1 equal-width bins. Every bin is
// half open except the last one, which also holds the maximum value.
type Histogram struct {
	Counts []float64
	Edges  []float64
}

// New bins data into bins equal-width bins spanning [min, max] of data.
// When all values are equal the range is widened by 0.5 on each side.
func New(data []float64, bins int) (*Histogram, error) {
	if bins <= 0 {
		return nil, errors.Wrapf(ErrInvalidBins, "got %d", bins)
	}
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	for _, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errors.Errorf("histogram: non-finite value %v", v)
		}
	}

	lo := data[floats.MinIdx(data)]
	hi := data[floats.MaxIdx(data)]
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}

	edges := floats.Span(make([]float64, bins+1), lo, hi)
	edges[bins] = hi

	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)

	// stat.Histogram bins are all half open, so the last divider is nudged
	// past hi to keep the maximum in the last bin.
	dividers := append([]float64(nil), edges...)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	counts := stat.Histogram(nil, dividers, sorted, nil)
	return &Histogram{Counts: counts, Edges: edges}, nil
}

// Bins returns the number of bins.
func (h *Histogram) Bins() int {
	return len(h.Counts)
}

// Centers returns the midpoint of every bin.
func (h *Histogram) Centers() []float64 {
	c := make([]float64, len(h.Counts))
	for i := range c {
		c[i] = (h.Edges[i] + h.Edges[i+1]) / 2
	}
	return c
}

// Total returns the number of binned values.
func (h *Histogram) Total() int {
	return int(floats.Sum(h.Counts))
}
