package drs4

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// Writer encodes events in the format read by Reader.
type Writer struct {
	bw    *bufio.Writer
	board uint16
}

// NewWriter writes the file and time calibration headers for one board.
func NewWriter(w io.Writer, board uint16, channels [NumChannels]bool, widths [NumChannels][NumCells]float64) (*Writer, error) {
	wr := &Writer{bw: bufio.NewWriter(w), board: board}
	if err := wr.write(fileHeader{[3]byte{'D', 'R', 'S'}, '2'}); err != nil {
		return nil, err
	}
	if err := wr.write(timeHeader{[4]byte{'T', 'I', 'M', 'E'}}); err != nil {
		return nil, err
	}
	if err := wr.write(boardHeader{[2]byte{'B', '#'}, board}); err != nil {
		return nil, err
	}
	for ch, ok := range channels {
		if !ok {
			continue
		}
		var w32 [NumCells]float32
		for i, v := range widths[ch] {
			w32[i] = float32(v)
		}
		if err := wr.write(channelHeader{channelTag(ch)}); err != nil {
			return nil, err
		}
		if err := wr.write(&w32); err != nil {
			return nil, err
		}
	}
	return wr, nil
}

// NewWriterFrom writes a header copied from r.
func NewWriterFrom(w io.Writer, r *Reader) (*Writer, error) {
	return NewWriter(w, r.Board(), r.CalibratedChannels(), r.BinWidths())
}

func (w *Writer) write(v interface{}) error {
	return errors.Wrap(binary.Write(w.bw, binary.LittleEndian, v), "drs4 write")
}

// WriteEvent encodes the raw samples of e.
func (w *Writer) WriteEvent(e *Event) error {
	t := e.Timestamp.UTC()
	eh := eventHeader{
		Tag:         [4]byte{'E', 'H', 'D', 'R'},
		Serial:      e.Serial,
		Year:        uint16(t.Year()),
		Month:       uint16(t.Month()),
		Day:         uint16(t.Day()),
		Hour:        uint16(t.Hour()),
		Minute:      uint16(t.Minute()),
		Second:      uint16(t.Second()),
		Millisecond: uint16(t.Nanosecond() / 1e6),
		Range:       e.Range,
	}
	if err := w.write(&eh); err != nil {
		return err
	}
	if err := w.write(boardHeader{[2]byte{'B', '#'}, w.board}); err != nil {
		return err
	}
	if err := w.write(triggerHeader{[2]byte{'T', '#'}, e.TriggerCell}); err != nil {
		return err
	}
	for _, ch := range e.Channels() {
		if err := w.write(channelHeader{channelTag(ch)}); err != nil {
			return err
		}
		if err := w.write(e.Scaler[ch]); err != nil {
			return err
		}
		if err := w.write(&e.Raw[ch]); err != nil {
			return err
		}
	}
	return nil
}

// Flush writes buffered data to the underlying writer.
func (w *Writer) Flush() error {
	return w.bw.Flush()
}
