package edeposit

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
)

func TestRead(t *testing.T) {
	in := "# run 12\n0,1.5\n1, -0.25\n\n2,3e-2\n"
	records, err := Read(strings.NewReader(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Record{{0, 1.5}, {1, -0.25}, {2, 0.03}}
	if !reflect.DeepEqual(records, want) {
		t.Errorf("Read: got %v, want %v", records, want)
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		line int
	}{
		{"missing charge", "0,1\n1\n", 2},
		{"bad event id", "x,1\n", 1},
		{"bad charge", "0,1\n1,abc\n", 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tc.in))
			pe, ok := err.(*ParseError)
			if !ok {
				t.Fatalf("err: got %T %v, want *ParseError", err, err)
			}
			if pe.Line != tc.line {
				t.Errorf("Line: got %d, want %d", pe.Line, tc.line)
			}
		})
	}
}

func TestWriteRead(t *testing.T) {
	records := []Record{{3, 0.125}, {4, -2}, {10, 1e-9}}
	var buf bytes.Buffer
	if err := Write(&buf, records); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "3,0.125\n4,-2\n10,1e-09\n"; buf.String() != want {
		t.Errorf("Write: got %q, want %q", buf.String(), want)
	}
	got, err := Read(&buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, records) {
		t.Errorf("Read: got %v, want %v", got, records)
	}
	if c := Charges(got); !reflect.DeepEqual(c, []float64{0.125, -2, 1e-9}) {
		t.Errorf("Charges: got %v", c)
	}
}
