package charge

import (
	"math"

	"github.com/mjibson/go-dsp/dsputils"
	"github.com/mjibson/go-dsp/fft"
	"github.com/pkg/errors"
)

// Smoother low-pass filters fixed-length waveforms with a Blackman windowed
// sinc kernel, convolved in the frequency domain.
type Smoother struct {
	m    int
	size int
	fft  []complex128
}

// NewSmoother builds a filter of kernel length m+1 (m even) with cutoff fc
// as a fraction of the sampling rate, for waveforms of size samples.
func NewSmoother(m int, fc float64, size int) (*Smoother, error) {
	if m <= 0 || m%2 != 0 {
		return nil, errors.Wrapf(ErrInvalidArgument, "kernel length %d must be positive and even", m)
	}
	if fc <= 0 || fc >= 0.5 {
		return nil, errors.Wrapf(ErrInvalidArgument, "cutoff %g must be in (0, 0.5)", fc)
	}
	if size <= 0 {
		return nil, errors.Wrapf(ErrInvalidArgument, "size %d", size)
	}
	kernel := dsputils.ZeroPadF(windowSincKernelLp(m, fc), m+size)
	return &Smoother{m: m, size: size, fft: fft.FFTReal(kernel)}, nil
}

// Smooth returns the filtered signal, shifted back by the kernel delay so
// that output cell i lines up with input cell i.
func (s *Smoother) Smooth(signal []float64) ([]float64, error) {
	if len(signal) != s.size {
		return nil, errors.Wrapf(ErrInvalidArgument, "got %d samples, smoother built for %d", len(signal), s.size)
	}
	res := s.convolve(signal)
	out := make([]float64, s.size)
	copy(out, res[s.m/2:s.m/2+s.size])
	return out, nil
}

func (s *Smoother) convolve(signal []float64) []float64 {
	padded := dsputils.ZeroPadF(signal, len(s.fft))
	fftY := fft.FFTReal(padded)

	r := make([]complex128, len(fftY))
	for i := range r {
		r[i] = s.fft[i] * fftY[i]
	}
	return toReal(fft.IFFT(r))
}

func toReal(a []complex128) []float64 {
	r := make([]float64, len(a))
	for i := range a {
		r[i] = real(a[i])
	}
	return r
}

func windowSincKernelLp(m int, fc float64) []float64 {
	h := make([]float64, m+1)
	mF := float64(m)
	mF2 := float64(m / 2)
	for i := 0; i <= m; i++ {
		iF := float64(i)
		// Blackman window
		w := 0.42 - 0.5*math.Cos(2*math.Pi*iF/mF) + 0.08*math.Cos(4*math.Pi*iF/mF)
		h[i] = w * math.Sin(2*math.Pi*fc*(iF-mF2)) / (iF - mF2)
	}
	h[m/2] = 2 * math.Pi * fc
	var sum float64
	for i := 0; i <= m; i++ {
		sum += h[i]
	}
	for i := 0; i <= m; i++ {
		h[i] /= sum
	}
	return h
}
