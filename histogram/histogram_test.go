package histogram

import (
	"math"
	"reflect"
	"testing"

	"github.com/pkg/errors"
)

const tolerance = 1e-12

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestNewCounts(t *testing.T) {
	h, err := New([]float64{0, 1, 1, 2, 3, 4}, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Bins: [0,1) [1,2) [2,3) [3,4]
	if want := []float64{1, 2, 1, 2}; !reflect.DeepEqual(h.Counts, want) {
		t.Errorf("Counts: got %v, want %v", h.Counts, want)
	}
	wantEdges := []float64{0, 1, 2, 3, 4}
	for i, e := range h.Edges {
		if !almostEqual(e, wantEdges[i], tolerance) {
			t.Errorf("Edges[%d]: got %g, want %g", i, e, wantEdges[i])
		}
	}
	if h.Bins() != 4 {
		t.Errorf("Bins: got %d, want 4", h.Bins())
	}
	if h.Total() != 6 {
		t.Errorf("Total: got %d, want 6", h.Total())
	}
}

func TestNewUnsortedInputIsNotMutated(t *testing.T) {
	data := []float64{4, 0, 3, 1, 2, 1}
	orig := append([]float64(nil), data...)
	h, err := New(data, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []float64{3, 3}; !reflect.DeepEqual(h.Counts, want) {
		t.Errorf("Counts: got %v, want %v", h.Counts, want)
	}
	if !reflect.DeepEqual(data, orig) {
		t.Errorf("input mutated: got %v, want %v", data, orig)
	}
}

func TestNewConstantData(t *testing.T) {
	h, err := New([]float64{5, 5, 5}, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(h.Edges[0], 4.5, tolerance) || !almostEqual(h.Edges[2], 5.5, tolerance) {
		t.Errorf("Edges: got %v, want [4.5 5 5.5]", h.Edges)
	}
	// 5 sits on the middle edge and falls in the upper bin.
	if want := []float64{0, 3}; !reflect.DeepEqual(h.Counts, want) {
		t.Errorf("Counts: got %v, want %v", h.Counts, want)
	}
}

func TestCenters(t *testing.T) {
	h, err := New([]float64{0, 10}, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{1, 3, 5, 7, 9}
	got := h.Centers()
	if len(got) != len(want) {
		t.Fatalf("Centers: got %v, want %v", got, want)
	}
	for i := range want {
		if !almostEqual(got[i], want[i], 1e-9) {
			t.Errorf("Centers[%d]: got %g, want %g", i, got[i], want[i])
		}
	}
}

func TestNewErrors(t *testing.T) {
	if _, err := New(nil, 10); !errors.Is(err, ErrEmpty) {
		t.Errorf("empty: got %v, want ErrEmpty", err)
	}
	if _, err := New([]float64{1}, 0); !errors.Is(err, ErrInvalidBins) {
		t.Errorf("zero bins: got %v, want ErrInvalidBins", err)
	}
	if _, err := New([]float64{1, math.NaN()}, 3); err == nil {
		t.Errorf("NaN: expected error")
	}
}
