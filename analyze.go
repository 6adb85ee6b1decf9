package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/VictorDenisov/drs4ana/edeposit"
	"github.com/VictorDenisov/drs4ana/histogram"
	"github.com/VictorDenisov/drs4ana/peaks"
	"github.com/VictorDenisov/drs4ana/report"
)

type peaksConfig struct {
	run       string
	input     string
	dataDir   string
	bins      int
	window    int
	symmetric bool
	noChart   bool
}

// inputPath returns the deposit file and the directory outputs go to.
func (c peaksConfig) inputPath() (string, string, error) {
	if c.input != "" {
		return c.input, filepath.Dir(c.input), nil
	}
	if c.run == "" {
		return "", "", errors.New("either --run or --input is required")
	}
	dir := filepath.Join(c.dataDir, c.run)
	return filepath.Join(dir, edeposit.FileName), dir, nil
}

// analyzeRun histograms the deposits of a run, writes the peak summary and
// chart next to the input and prints the peak table to stdout.
func analyzeRun(cfg peaksConfig, stdout io.Writer) ([]report.Peak, error) {
	input, outDir, err := cfg.inputPath()
	if err != nil {
		return nil, err
	}
	if cfg.run != "" {
		fmt.Fprintf(stdout, " the run name :  %s\n", cfg.run)
	} else {
		fmt.Fprintf(stdout, " the input file :  %s\n", input)
	}

	records, err := readDeposits(input)
	if err != nil {
		return nil, err
	}
	log.Infof("Read %d deposits from %s", len(records), input)

	h, err := histogram.New(edeposit.Charges(records), cfg.bins)
	if err != nil {
		return nil, err
	}

	find := peaks.FindPeaks
	if cfg.symmetric {
		find = peaks.FindPeaksSymmetric
	}
	indices, values, err := find(h.Counts, cfg.window)
	if err != nil {
		return nil, err
	}
	ps, err := report.NewPeaks(h, indices, values)
	if err != nil {
		return nil, err
	}
	log.Debugf("Peak bins: %v", indices)

	peaksFile := filepath.Join(outDir, report.PeaksFileName)
	if err := writeFile(peaksFile, func(w io.Writer) error {
		return report.WritePeaks(w, ps)
	}); err != nil {
		return nil, err
	}
	report.PrintPeaks(stdout, ps)
	fmt.Fprintf(stdout, "peaks saved at  %s\n", peaksFile)

	if !cfg.noChart {
		chartFile := filepath.Join(outDir, report.ChartFileName)
		if err := writeFile(chartFile, func(w io.Writer) error {
			return report.HistogramChart(w, h, ps, report.DefaultChartOptions)
		}); err != nil {
			return nil, err
		}
		fmt.Fprintf(stdout, "histogram saved at  %s\n", chartFile)
	}
	return ps, nil
}

func readDeposits(name string) ([]edeposit.Record, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, errors.Wrap(err, "unable to find event file")
	}
	defer file.Close()
	records, err := edeposit.Read(file)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", name)
	}
	return records, nil
}

// writeFile creates name, lets write fill it and closes it, reporting the
// first error.
func writeFile(name string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return err
	}
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return errors.Wrapf(err, "writing %s", name)
	}
	return f.Close()
}
