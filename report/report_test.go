package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/VictorDenisov/drs4ana/drs4"
	"github.com/VictorDenisov/drs4ana/histogram"
)

func testHistogram(t *testing.T) *histogram.Histogram {
	t.Helper()
	h, err := histogram.New([]float64{0, 1, 1, 2, 3, 4}, 4)
	if err != nil {
		t.Fatalf("histogram: %v", err)
	}
	return h
}

func TestNewPeaks(t *testing.T) {
	h := testHistogram(t)
	ps, err := NewPeaks(h, []int{1, 3}, []float64{2, 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Peak{{1, 1.5, 2}, {3, 3.5, 2}}
	if len(ps) != len(want) {
		t.Fatalf("len: got %d, want %d", len(ps), len(want))
	}
	for i := range want {
		if ps[i] != want[i] {
			t.Errorf("peak %d: got %+v, want %+v", i, ps[i], want[i])
		}
	}

	if _, err := NewPeaks(h, []int{4}, []float64{1}); err == nil {
		t.Errorf("out of range index: expected error")
	}
	if _, err := NewPeaks(h, []int{1}, nil); err == nil {
		t.Errorf("mismatched lengths: expected error")
	}
}

func TestWritePeaks(t *testing.T) {
	var buf bytes.Buffer
	err := WritePeaks(&buf, []Peak{{1, 1.5, 2}, {3, 3.25, 7}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "#peaks \n#energy,count\n1.5,2\n3.25,7\n"
	if buf.String() != want {
		t.Errorf("WritePeaks: got %q, want %q", buf.String(), want)
	}
}

func TestPrintPeaks(t *testing.T) {
	var buf bytes.Buffer
	PrintPeaks(&buf, []Peak{{1, 1.456, 2}})
	if !strings.Contains(buf.String(), "1.46") {
		t.Errorf("PrintPeaks: got %q", buf.String())
	}
}

func TestHistogramChart(t *testing.T) {
	h := testHistogram(t)
	var buf bytes.Buffer
	if err := HistogramChart(&buf, h, []Peak{{1, 1.5, 2}}, DefaultChartOptions); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	for _, s := range []string{"identified peaks", "Total", `"log"`} {
		if !strings.Contains(out, s) {
			t.Errorf("chart is missing %q", s)
		}
	}
}

func TestWaveformChart(t *testing.T) {
	e := &drs4.Event{EventHeader: drs4.EventHeader{Serial: 9, Timestamp: time.Now()}}
	e.Present[0] = true
	e.Present[2] = true
	var buf bytes.Buffer
	if err := WaveformChart(&buf, e, "run"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, s := range []string{"CH1", "CH3"} {
		if !strings.Contains(buf.String(), s) {
			t.Errorf("chart is missing %q", s)
		}
	}

	if err := WaveformChart(&buf, &drs4.Event{}, "run"); err == nil {
		t.Errorf("empty event: expected error")
	}
}
