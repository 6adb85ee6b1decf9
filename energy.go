package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/VictorDenisov/drs4ana/charge"
	"github.com/VictorDenisov/drs4ana/drs4"
	"github.com/VictorDenisov/drs4ana/edeposit"
)

type energyConfig struct {
	file      string
	run       string
	dataDir   string
	output    string
	channel   int
	params    charge.Params
	start     int
	end       int
	offsets   string
	smooth    float64
	smoothLen int
}

func (c energyConfig) outputPath() (string, error) {
	if c.output != "" {
		return c.output, nil
	}
	if c.run == "" {
		return "", errors.New("either --run or --output is required")
	}
	return filepath.Join(c.dataDir, c.run, edeposit.FileName), nil
}

// extractDeposits integrates one channel of every event in the selected
// range and writes the deposit file. Cancelling ctx stops decoding; the
// deposits gathered so far are still written.
func extractDeposits(ctx context.Context, cfg energyConfig) (int, error) {
	if cfg.channel < 1 || cfg.channel > drs4.NumChannels {
		return 0, errors.Wrapf(charge.ErrInvalidChannel, "channel %d", cfg.channel)
	}
	if cfg.start < 0 || (cfg.end >= 0 && cfg.end < cfg.start) {
		return 0, errors.Wrapf(drs4.ErrInvalidRange, "start %d, end %d", cfg.start, cfg.end)
	}
	output, err := cfg.outputPath()
	if err != nil {
		return 0, err
	}
	ch := cfg.channel - 1

	r, err := openEvents(cfg.file, cfg.offsets)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	var smoother *charge.Smoother
	if cfg.smooth > 0 {
		smoother, err = charge.NewSmoother(cfg.smoothLen, cfg.smooth, drs4.NumCells)
		if err != nil {
			return 0, err
		}
	}

	if err := r.Skip(cfg.start); err != nil {
		return 0, err
	}

	records := make([]edeposit.Record, 0)
	skipped := 0
loop:
	for cfg.end < 0 || r.Position() <= cfg.end {
		select {
		case <-ctx.Done():
			log.Warnf("Interrupted at event %d", r.Position())
			break loop
		default:
		}

		e, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, err
		}
		if !e.Present[ch] {
			log.Warnf("Event %d has no data on channel %d", e.Serial, cfg.channel)
			skipped++
			continue
		}

		v := e.Voltage[ch][:]
		if smoother != nil {
			if v, err = smoother.Smooth(v); err != nil {
				return 0, err
			}
		}
		q, err := charge.Deposit(e.Time[ch][:], v, cfg.params)
		if err != nil {
			return 0, errors.Wrapf(err, "event %d", e.Serial)
		}
		records = append(records, edeposit.Record{EventID: int(e.Serial), Charge: q})
		log.Tracef("Event %d deposit %g", e.Serial, q)
		if len(records)%1000 == 0 {
			log.Debugf("Integrated %d events", len(records))
		}
	}

	if err := writeFile(output, func(w io.Writer) error {
		return edeposit.Write(w, records)
	}); err != nil {
		return 0, err
	}
	log.Infof("Wrote %d deposits to %s (%d events skipped)", len(records), output, skipped)
	return len(records), nil
}

// openEvents opens a DRS4 file, applying the offset calibration file when
// one is given.
func openEvents(file, offsets string) (*drs4.Reader, error) {
	r, err := drs4.Open(file)
	if err != nil {
		return nil, err
	}
	if offsets != "" {
		o, err := drs4.LoadOffsetsFile(offsets)
		if err != nil {
			r.Close()
			return nil, err
		}
		r.SetOffsets(o)
	}
	log.Debugf("Opened %s, board #%d", file, r.Board())
	return r, nil
}

// setupSignalHandling returns a context cancelled on SIGINT or SIGTERM.
func setupSignalHandling(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigs := make(chan os.Signal, 1)

	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigs)
		select {
		case sig := <-sigs:
			log.Warnf("Received %v", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
