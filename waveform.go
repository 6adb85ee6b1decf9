package main

import (
	"io"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/VictorDenisov/drs4ana/drs4"
	"github.com/VictorDenisov/drs4ana/report"
)

type waveformConfig struct {
	file    string
	event   int
	output  string
	offsets string
}

func drawWaveform(cfg waveformConfig) error {
	if cfg.event < 0 {
		return errors.Wrapf(drs4.ErrInvalidRange, "event %d", cfg.event)
	}
	r, err := openEvents(cfg.file, cfg.offsets)
	if err != nil {
		return err
	}
	defer r.Close()

	events, err := r.ReadRange(cfg.event, cfg.event)
	if err != nil {
		return err
	}
	e := events[0]
	for _, ch := range e.Channels() {
		mn, cell := segmentMin(e.Voltage[ch][:])
		log.Infof("CH%d: minimum %.4f V at %.2f ns", ch+1, mn, e.Time[ch][cell])
	}
	return writeFile(cfg.output, func(w io.Writer) error {
		return report.WaveformChart(w, e, cfg.file)
	})
}

func segmentMin(seg []float64) (mn float64, id int) {
	mn = seg[0]
	for i := 1; i < len(seg); i++ {
		if seg[i] < mn {
			mn = seg[i]
			id = i
		}
	}
	return mn, id
}
