// Package peaks finds local maxima in histogram bin counts.
package peaks

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// ErrInvalidArgument is returned for an empty sample sequence or a
// non-positive window.
var ErrInvalidArgument = errors.New("invalid argument")

// FindPeaks returns the indices of samples that equal the maximum of their
// window, together with their values, in increasing index order.
//
// With h = window/2 + 1, the first h indices are all compared against the
// maximum of the fixed leading block samples[0:window]. Indices from h up to
// len(samples)-h are compared against samples[i-h:i+h]. Indices past that
// are never reported. Equal maxima within one window are each reported.
func FindPeaks(samples []float64, window int) ([]int, []float64, error) {
	if err := validate(samples, window); err != nil {
		return nil, nil, err
	}
	n := len(samples)
	h := halfWidth(window)

	indices := make([]int, 0)
	values := make([]float64, 0)

	m := floats.Max(samples[:minInt(window, n)])
	for i := 0; i < minInt(h, n); i++ {
		if samples[i] == m {
			indices = append(indices, i)
			values = append(values, samples[i])
		}
	}

	for i := h; i < n-h; i++ {
		if samples[i] == floats.Max(samples[i-h:i+h]) {
			indices = append(indices, i)
			values = append(values, samples[i])
		}
	}
	return indices, values, nil
}

// FindPeaksSymmetric is FindPeaks with a window re-centered on every index,
// including both boundaries: index i is a peak when it equals the maximum
// of samples[max(0, i-h):min(n, i+h)].
func FindPeaksSymmetric(samples []float64, window int) ([]int, []float64, error) {
	if err := validate(samples, window); err != nil {
		return nil, nil, err
	}
	n := len(samples)
	h := halfWidth(window)

	indices := make([]int, 0)
	values := make([]float64, 0)
	for i := 0; i < n; i++ {
		lo := maxInt(0, i-h)
		hi := minInt(n, i+h)
		if samples[i] == floats.Max(samples[lo:hi]) {
			indices = append(indices, i)
			values = append(values, samples[i])
		}
	}
	return indices, values, nil
}

func validate(samples []float64, window int) error {
	if len(samples) == 0 {
		return errors.Wrap(ErrInvalidArgument, "empty samples")
	}
	if window <= 0 {
		return errors.Wrapf(ErrInvalidArgument, "window must be positive, got %d", window)
	}
	return nil
}

func halfWidth(window int) int {
	return window/2 + 1
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
