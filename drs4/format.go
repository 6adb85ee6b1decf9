// Package drs4 decodes binary waveform files written by the DRS4 evaluation
// board oscilloscope software (file version 2).
//
// A file starts with "DRS2" and a "TIME" block holding the per-cell time
// bin widths of every board channel, followed by events. All values are
// little endian.
package drs4

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

const (
	NumChannels = 4
	NumCells    = 1024
)

// Volts per ADC count. The event range (mV) shifts the 16 bit sample window.
const adcScale = 65536.0

var (
	ErrInvalidRange    = errors.New("drs4: invalid event range")
	ErrMultipleBoards  = errors.New("drs4: files with more than one board are not supported")
	ErrEventOutOfRange = errors.New("drs4: start event beyond end of file")
)

// FormatError reports an unexpected tag in the file.
type FormatError struct {
	Offset int64
	Want   string
	Got    string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("drs4: invalid header at offset %d: want %q, got %q", e.Offset, e.Want, e.Got)
}

type fileHeader struct {
	Tag     [3]byte
	Version byte
}

type timeHeader struct {
	Tag [4]byte
}

type boardHeader struct {
	Tag    [2]byte
	Serial uint16
}

type channelHeader struct {
	Tag [4]byte
}

type triggerHeader struct {
	Tag  [2]byte
	Cell uint16
}

type eventHeader struct {
	Tag         [4]byte
	Serial      uint32
	Year        uint16
	Month       uint16
	Day         uint16
	Hour        uint16
	Minute      uint16
	Second      uint16
	Millisecond uint16
	Range       uint16
}

// channel returns the zero based channel index encoded as "C001".."C004",
// or -1 when the tag is not a channel tag.
func (h channelHeader) channel() int {
	if string(h.Tag[:3]) != "C00" {
		return -1
	}
	return int(h.Tag[3]-'0') - 1
}

func channelTag(ch int) [4]byte {
	return [4]byte{'C', '0', '0', byte('1' + ch)}
}

// EventHeader is the decoded per-event header.
type EventHeader struct {
	Serial      uint32
	Timestamp   time.Time
	Range       uint16 // mV
	Board       uint16
	TriggerCell uint16
}

// Event is one trigger of one board. Time is in ns and Voltage in V; only
// the channels flagged in Present carry data.
type Event struct {
	EventHeader
	Present [NumChannels]bool
	Scaler  [NumChannels]int32
	Raw     [NumChannels][NumCells]uint16
	Time    [NumChannels][NumCells]float64
	Voltage [NumChannels][NumCells]float64
}

// Channels returns the indices of the channels present in the event.
func (e *Event) Channels() []int {
	chs := make([]int, 0, NumChannels)
	for ch, ok := range e.Present {
		if ok {
			chs = append(chs, ch)
		}
	}
	return chs
}

// Samples returns the event as [channel][cell]{time, voltage}.
func (e *Event) Samples() [NumChannels][NumCells][2]float64 {
	var s [NumChannels][NumCells][2]float64
	for ch := 0; ch < NumChannels; ch++ {
		for i := 0; i < NumCells; i++ {
			s[ch][i] = [2]float64{e.Time[ch][i], e.Voltage[ch][i]}
		}
	}
	return s
}
