package drs4

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// Offsets holds a per-cell voltage pedestal for every channel.
type Offsets [NumChannels][NumCells]float64

// LoadOffsets reads repeated {int32 channel, 1024 float64} records.
// Channels missing from the file keep a zero offset.
func LoadOffsets(rd io.Reader) (*Offsets, error) {
	var o Offsets
	for {
		var ch int32
		if err := binary.Read(rd, binary.LittleEndian, &ch); err != nil {
			if err == io.EOF {
				return &o, nil
			}
			return nil, errors.Wrap(err, "offset channel id")
		}
		if ch < 0 || ch >= NumChannels {
			return nil, errors.Errorf("offset channel %d out of range", ch)
		}
		if err := binary.Read(rd, binary.LittleEndian, &o[ch]); err != nil {
			return nil, errors.Wrapf(err, "offsets of channel %d", ch)
		}
	}
}

// LoadOffsetsFile reads offsets from the named file.
func LoadOffsetsFile(name string) (*Offsets, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	o, err := LoadOffsets(f)
	return o, errors.Wrapf(err, "reading %s", name)
}

// WriteOffsets writes the offsets of the given channels in the format read
// by LoadOffsets.
func WriteOffsets(w io.Writer, o *Offsets, channels []int) error {
	for _, ch := range channels {
		if err := binary.Write(w, binary.LittleEndian, int32(ch)); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, &o[ch]); err != nil {
			return err
		}
	}
	return nil
}

// MeanOffsets averages the voltages of events per channel and cell. It is
// meant for pedestal runs taken without input signal.
func MeanOffsets(events []*Event) *Offsets {
	var o Offsets
	var n [NumChannels]int
	for _, e := range events {
		for _, ch := range e.Channels() {
			floats.Add(o[ch][:], e.Voltage[ch][:])
			n[ch]++
		}
	}
	for ch := 0; ch < NumChannels; ch++ {
		if n[ch] > 0 {
			floats.Scale(1/float64(n[ch]), o[ch][:])
		}
	}
	return &o
}
