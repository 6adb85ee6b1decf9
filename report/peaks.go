// Package report writes peak summaries and renders charts.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/pkg/errors"

	"github.com/VictorDenisov/drs4ana/histogram"
)

// PeaksFileName is the name of the peak summary inside a run directory.
const PeaksFileName = "peaks.txt"

// Peak is a histogram bin identified as a local maximum.
type Peak struct {
	Index  int
	Energy float64
	Count  float64
}

// NewPeaks maps peak bin indices to the bin centers of h.
func NewPeaks(h *histogram.Histogram, indices []int, counts []float64) ([]Peak, error) {
	if len(indices) != len(counts) {
		return nil, errors.Errorf("%d indices for %d counts", len(indices), len(counts))
	}
	centers := h.Centers()
	ps := make([]Peak, len(indices))
	for k, idx := range indices {
		if idx < 0 || idx >= len(centers) {
			return nil, errors.Errorf("peak index %d outside %d bins", idx, len(centers))
		}
		ps[k] = Peak{Index: idx, Energy: centers[idx], Count: counts[k]}
	}
	return ps, nil
}

// WritePeaks writes the peak summary as "energy,count" lines.
func WritePeaks(w io.Writer, ps []Peak) error {
	if _, err := io.WriteString(w, "#peaks \n#energy,count\n"); err != nil {
		return errors.Wrap(err, "writing peaks")
	}
	for _, p := range ps {
		if _, err := fmt.Fprintf(w, "%s,%s\n", formatFloat(p.Energy), formatFloat(p.Count)); err != nil {
			return errors.Wrap(err, "writing peaks")
		}
	}
	return nil
}

// PrintPeaks writes the human readable peak table.
func PrintPeaks(w io.Writer, ps []Peak) {
	fmt.Fprintf(w, "\t    peaks \n\tenergy\tcount\n")
	for _, p := range ps {
		fmt.Fprintf(w, "\t %.2f \t %s\n", p.Energy, formatFloat(p.Count))
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
