package main

import (
	"io"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/VictorDenisov/drs4ana/drs4"
)

type calibrateConfig struct {
	file   string
	events int
	output string
}

// calibrateOffsets averages the first events of a pedestal run per channel
// and cell and writes them as an offset calibration file.
func calibrateOffsets(cfg calibrateConfig) error {
	if cfg.events <= 0 {
		return errors.Wrapf(drs4.ErrInvalidRange, "events %d", cfg.events)
	}
	r, err := drs4.Open(cfg.file)
	if err != nil {
		return err
	}
	defer r.Close()

	events, err := r.ReadRange(0, cfg.events-1)
	if err != nil {
		return err
	}
	o := drs4.MeanOffsets(events)

	channels := make([]int, 0, drs4.NumChannels)
	for ch, ok := range r.CalibratedChannels() {
		if ok {
			channels = append(channels, ch)
		}
	}
	log.Infof("Averaged %d events over channels %v", len(events), channels)
	return writeFile(cfg.output, func(w io.Writer) error {
		return drs4.WriteOffsets(w, o, channels)
	})
}

type extractConfig struct {
	file   string
	start  int
	end    int
	output string
}

// extractEvents copies events start..end into a new file with the same
// time calibration.
func extractEvents(cfg extractConfig) (int, error) {
	r, err := drs4.Open(cfg.file)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	events, err := r.ReadRange(cfg.start, cfg.end)
	if err != nil {
		return 0, err
	}
	err = writeFile(cfg.output, func(w io.Writer) error {
		dw, err := drs4.NewWriterFrom(w, r)
		if err != nil {
			return err
		}
		for _, e := range events {
			if err := dw.WriteEvent(e); err != nil {
				return err
			}
		}
		return dw.Flush()
	})
	if err != nil {
		return 0, err
	}
	log.Infof("Copied %d events to %s", len(events), cfg.output)
	return len(events), nil
}
