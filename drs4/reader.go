package drs4

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Reader decodes events sequentially. It is not safe for concurrent use.
type Reader struct {
	br     *bufio.Reader
	closer io.Closer
	pos    int64

	board    uint16
	channels [NumChannels]bool
	binWidth [NumChannels][NumCells]float64
	offsets  *Offsets

	next int
}

// Open opens a DRS4 binary file and reads its header.
func Open(name string) (*Reader, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	r, err := NewReader(file)
	if err != nil {
		file.Close()
		return nil, errors.Wrapf(err, "reading %s", name)
	}
	r.closer = file
	return r, nil
}

// NewReader reads the file and time calibration headers from rd.
func NewReader(rd io.Reader) (*Reader, error) {
	r := &Reader{br: bufio.NewReader(rd)}
	if err := r.readHeader(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// Board returns the serial number of the board in the file.
func (r *Reader) Board() uint16 {
	return r.board
}

// BinWidths returns the time calibration of every channel in ns.
func (r *Reader) BinWidths() [NumChannels][NumCells]float64 {
	return r.binWidth
}

// CalibratedChannels reports which channels have a time calibration.
func (r *Reader) CalibratedChannels() [NumChannels]bool {
	return r.channels
}

// SetOffsets makes the reader subtract o from every decoded voltage. A nil
// o disables the correction.
func (r *Reader) SetOffsets(o *Offsets) {
	r.offsets = o
}

// Position returns the index of the event Next will return.
func (r *Reader) Position() int {
	return r.next
}

func (r *Reader) read(v interface{}) error {
	if err := binary.Read(r.br, binary.LittleEndian, v); err != nil {
		return err
	}
	r.pos += int64(binary.Size(v))
	return nil
}

func (r *Reader) peek(n int) ([]byte, error) {
	return r.br.Peek(n)
}

func (r *Reader) readHeader() error {
	var fh fileHeader
	if err := r.read(&fh); err != nil {
		return errors.Wrap(err, "file header")
	}
	if string(fh.Tag[:]) != "DRS" {
		return &FormatError{0, "DRS", string(fh.Tag[:])}
	}
	if fh.Version != '2' {
		return &FormatError{3, "2", string(fh.Version)}
	}

	var th timeHeader
	if err := r.read(&th); err != nil {
		return errors.Wrap(err, "time header")
	}
	if string(th.Tag[:]) != "TIME" {
		return &FormatError{4, "TIME", string(th.Tag[:])}
	}

	boards := 0
	for {
		tag, err := r.peek(2)
		if err != nil || string(tag) != "B#" {
			break
		}
		var bh boardHeader
		if err := r.read(&bh); err != nil {
			return errors.Wrap(err, "board header")
		}
		boards++
		r.board = bh.Serial
		log.Tracef("Board #%d in time header", bh.Serial)

		for {
			tag, err := r.peek(1)
			if err != nil || tag[0] != 'C' {
				break
			}
			var ch channelHeader
			if err := r.read(&ch); err != nil {
				return errors.Wrap(err, "channel header")
			}
			idx := ch.channel()
			if idx < 0 || idx >= NumChannels {
				return &FormatError{r.pos - 4, "C001..C004", string(ch.Tag[:])}
			}
			var widths [NumCells]float32
			if err := r.read(&widths); err != nil {
				return errors.Wrap(err, "time bin widths")
			}
			// 2048 bin mode stores only the first half.
			if widths[NumCells-1] > 10 || widths[NumCells-1] < 0.01 {
				copy(widths[NumCells/2:], widths[:NumCells/2])
			}
			for i, w := range widths {
				r.binWidth[idx][i] = float64(w)
			}
			r.channels[idx] = true
			log.Tracef("Time calibration for channel %d", idx+1)
		}
	}
	if boards == 0 {
		tag, _ := r.peek(2)
		return &FormatError{r.pos, "B#", string(tag)}
	}
	if boards > 1 {
		return errors.Wrapf(ErrMultipleBoards, "found %d boards", boards)
	}
	return nil
}

// Next decodes the next event. It returns io.EOF after the last event.
func (r *Reader) Next() (*Event, error) {
	start := r.pos
	var eh eventHeader
	if err := r.read(&eh); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, errors.Wrapf(err, "event %d header", r.next)
	}
	if string(eh.Tag[:]) != "EHDR" {
		return nil, &FormatError{start, "EHDR", string(eh.Tag[:])}
	}

	var bh boardHeader
	if err := r.read(&bh); err != nil {
		return nil, errors.Wrapf(err, "event %d board header", r.next)
	}
	if string(bh.Tag[:]) != "B#" {
		return nil, &FormatError{r.pos - 4, "B#", string(bh.Tag[:])}
	}

	var tch triggerHeader
	if err := r.read(&tch); err != nil {
		return nil, errors.Wrapf(err, "event %d trigger cell", r.next)
	}
	if string(tch.Tag[:]) != "T#" {
		return nil, &FormatError{r.pos - 4, "T#", string(tch.Tag[:])}
	}

	ts := time.Date(int(eh.Year), time.Month(eh.Month), int(eh.Day),
		int(eh.Hour), int(eh.Minute), int(eh.Second), int(eh.Millisecond)*int(time.Millisecond), time.UTC)
	e := &Event{EventHeader: EventHeader{
		Serial:      eh.Serial,
		Timestamp:   ts,
		Range:       eh.Range,
		Board:       bh.Serial,
		TriggerCell: tch.Cell,
	}}

	for {
		tag, err := r.peek(1)
		if err != nil || tag[0] != 'C' {
			break
		}
		var ch channelHeader
		if err := r.read(&ch); err != nil {
			return nil, errors.Wrapf(err, "event %d channel header", r.next)
		}
		idx := ch.channel()
		if idx < 0 || idx >= NumChannels {
			return nil, &FormatError{r.pos - 4, "C001..C004", string(ch.Tag[:])}
		}
		if err := r.read(&e.Scaler[idx]); err != nil {
			return nil, errors.Wrapf(err, "event %d scaler", r.next)
		}
		if err := r.read(&e.Raw[idx]); err != nil {
			return nil, errors.Wrapf(err, "event %d channel %d samples", r.next, idx+1)
		}
		e.Present[idx] = true
	}

	r.decode(e)
	r.next++
	return e, nil
}

// decode converts raw samples to volts and computes the calibrated time of
// every cell, aligning cell #0 of all channels to the first channel.
func (r *Reader) decode(e *Event) {
	tc := int(e.TriggerCell)
	rangeV := float64(e.Range) / 1000
	for _, ch := range e.Channels() {
		for i := 0; i < NumCells; i++ {
			v := float64(e.Raw[ch][i])/adcScale + rangeV - 0.5
			if r.offsets != nil {
				v -= r.offsets[ch][i]
			}
			e.Voltage[ch][i] = v
			if i > 0 {
				e.Time[ch][i] = e.Time[ch][i-1] + r.binWidth[ch][(i-1+tc)%NumCells]
			}
		}
	}

	chs := e.Channels()
	if len(chs) == 0 {
		return
	}
	cell0 := (NumCells - tc%NumCells) % NumCells
	t1 := e.Time[chs[0]][cell0]
	for _, ch := range chs[1:] {
		dt := t1 - e.Time[ch][cell0]
		for i := 0; i < NumCells; i++ {
			e.Time[ch][i] += dt
		}
	}
}

// Skip discards the next n events.
func (r *Reader) Skip(n int) error {
	for i := 0; i < n; i++ {
		if _, err := r.Next(); err != nil {
			if err == io.EOF {
				return errors.Wrapf(ErrEventOutOfRange, "file holds %d events", r.next)
			}
			return err
		}
	}
	return nil
}

// ReadRange returns the events with indices start..end inclusive. Events
// before start are skipped; the result is shorter when the file ends before
// end. start must not be before the reader's current position.
func (r *Reader) ReadRange(start, end int) ([]*Event, error) {
	if start < 0 || end < start {
		return nil, errors.Wrapf(ErrInvalidRange, "start %d, end %d", start, end)
	}
	if start < r.next {
		return nil, errors.Wrapf(ErrInvalidRange, "start %d already read, reader at %d", start, r.next)
	}
	if err := r.Skip(start - r.next); err != nil {
		return nil, err
	}
	events := make([]*Event, 0, minInt(end-start, maxPrealloc-1)+1)
	for r.next <= end {
		e, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if len(events) == 0 {
		return nil, errors.Wrapf(ErrEventOutOfRange, "file holds %d events", r.next)
	}
	return events, nil
}

// ReadEvents opens name and returns events start..end inclusive, with the
// voltage offsets o subtracted when o is not nil.
func ReadEvents(name string, start, end int, o *Offsets) ([]*Event, error) {
	if start < 0 || end < start {
		return nil, errors.Wrapf(ErrInvalidRange, "start %d, end %d", start, end)
	}
	r, err := Open(name)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	r.SetOffsets(o)
	return r.ReadRange(start, end)
}

// maxPrealloc bounds the slice ReadRange allocates up front; end may be far
// past the last event.
const maxPrealloc = 1024

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
