package peaks

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/pkg/errors"
)

func TestFindPeaks(t *testing.T) {
	tests := []struct {
		name        string
		samples     []float64
		window      int
		wantIndices []int
		wantValues  []float64
	}{
		{
			name:        "worked example",
			samples:     []float64{1, 5, 2, 8, 3, 8, 1},
			window:      2,
			wantIndices: []int{1, 3},
			wantValues:  []float64{5, 8},
		},
		{
			name:        "single global maximum",
			samples:     []float64{1, 2, 3, 9, 3, 2, 1},
			window:      7,
			wantIndices: []int{3},
			wantValues:  []float64{9},
		},
		{
			name:        "flat with window equal to length",
			samples:     []float64{4, 4, 4, 4, 4, 4},
			window:      6,
			wantIndices: []int{0, 1, 2, 3},
			wantValues:  []float64{4, 4, 4, 4},
		},
		{
			name:        "flat with narrow window",
			samples:     []float64{2, 2, 2, 2, 2, 2, 2, 2, 2, 2},
			window:      2,
			wantIndices: []int{0, 1, 2, 3, 4, 5, 6, 7},
			wantValues:  []float64{2, 2, 2, 2, 2, 2, 2, 2},
		},
		{
			name:        "ties are not suppressed",
			samples:     []float64{0, 4, 4, 0, 0, 0, 0, 0},
			window:      2,
			wantIndices: []int{1, 2, 5},
			wantValues:  []float64{4, 4, 0},
		},
		{
			name:        "window wider than samples",
			samples:     []float64{3, 1},
			window:      10,
			wantIndices: []int{0},
			wantValues:  []float64{3},
		},
		{
			name:        "single sample",
			samples:     []float64{7},
			window:      1,
			wantIndices: []int{0},
			wantValues:  []float64{7},
		},
		{
			name:        "left block uses fixed leading window",
			samples:     []float64{1, 5, 9, 2, 2, 2, 2, 2},
			window:      2,
			wantIndices: []int{1, 2, 5},
			wantValues:  []float64{5, 9, 2},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			indices, values, err := FindPeaks(tc.samples, tc.window)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(indices, tc.wantIndices) {
				t.Errorf("indices: got %v, want %v", indices, tc.wantIndices)
			}
			if !reflect.DeepEqual(values, tc.wantValues) {
				t.Errorf("values: got %v, want %v", values, tc.wantValues)
			}
		})
	}
}

func TestFindPeaksInvalidArgument(t *testing.T) {
	tests := []struct {
		name    string
		samples []float64
		window  int
	}{
		{"zero window", []float64{1, 2, 3}, 0},
		{"negative window", []float64{1, 2, 3}, -4},
		{"empty samples", []float64{}, 5},
		{"nil samples", nil, 5},
		{"empty samples and zero window", nil, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for _, find := range []func([]float64, int) ([]int, []float64, error){FindPeaks, FindPeaksSymmetric} {
				indices, values, err := find(tc.samples, tc.window)
				if !errors.Is(err, ErrInvalidArgument) {
					t.Errorf("err: got %v, want ErrInvalidArgument", err)
				}
				if indices != nil || values != nil {
					t.Errorf("got partial result %v %v", indices, values)
				}
			}
		})
	}
}

func TestFindPeaksProperties(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	for iter := 0; iter < 200; iter++ {
		n := 1 + rnd.Intn(64)
		samples := make([]float64, n)
		for i := range samples {
			samples[i] = float64(rnd.Intn(6))
		}
		orig := append([]float64(nil), samples...)
		window := 1 + rnd.Intn(2*n)

		for name, find := range map[string]func([]float64, int) ([]int, []float64, error){
			"fixed":     FindPeaks,
			"symmetric": FindPeaksSymmetric,
		} {
			indices, values, err := find(samples, window)
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", name, err)
			}
			if len(indices) != len(values) {
				t.Fatalf("%s: got %d indices and %d values", name, len(indices), len(values))
			}
			for k, idx := range indices {
				if idx < 0 || idx >= n {
					t.Fatalf("%s: index %d out of range [0, %d)", name, idx, n)
				}
				if k > 0 && idx <= indices[k-1] {
					t.Fatalf("%s: indices not strictly increasing: %v", name, indices)
				}
				if values[k] != samples[idx] {
					t.Fatalf("%s: values[%d] = %g, samples[%d] = %g", name, k, values[k], idx, samples[idx])
				}
			}
			if !reflect.DeepEqual(samples, orig) {
				t.Fatalf("%s: samples were mutated", name)
			}
		}
	}
}

func TestFindPeaksSymmetric(t *testing.T) {
	indices, values, err := FindPeaksSymmetric([]float64{1, 5, 2, 8, 3, 8, 1}, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []int{1, 3, 5}; !reflect.DeepEqual(indices, want) {
		t.Errorf("indices: got %v, want %v", indices, want)
	}
	if want := []float64{5, 8, 8}; !reflect.DeepEqual(values, want) {
		t.Errorf("values: got %v, want %v", values, want)
	}
}

func BenchmarkFindPeaks(b *testing.B) {
	samples := make([]float64, 200)
	for i := range samples {
		samples[i] = float64((i * 37) % 101)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = FindPeaks(samples, 20)
	}
}
