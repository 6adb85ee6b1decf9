package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/VictorDenisov/drs4ana/charge"
	"github.com/VictorDenisov/drs4ana/report"
)

// drs4ana turns DRS4 oscilloscope recordings into charge spectra.
//
//	drs4ana energy -f run12.dat -r run12    # writes data/run12/eDeposit.txt
//	drs4ana peaks -r run12                  # writes data/run12/peaks.txt and hist.html
//	drs4ana waveform -f run12.dat -e 42     # writes waveform.html
func main() {
	var logLevel string

	var pc peaksConfig
	ec := energyConfig{params: charge.DefaultParams}
	var wc waveformConfig
	var cc calibrateConfig
	var xc extractConfig

	app := &cli.App{
		Name:                 "drs4ana",
		Usage:                "Analyse DRS4 waveform files and charge spectra",
		EnableBashCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "trace, debug, info, warn or error",
				Value:       "info",
				EnvVars:     []string{"DRS4ANA_LOG_LEVEL"},
				Destination: &logLevel,
			},
		},
		Before: func(cCtx *cli.Context) error {
			level, err := log.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			log.SetLevel(level)
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:    "peaks",
				Aliases: []string{"p"},
				Usage:   "Histogram the charge deposits of a run and identify peaks",
				Action: func(cCtx *cli.Context) error {
					_, err := analyzeRun(pc, os.Stdout)
					return err
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "run",
						Aliases:     []string{"r"},
						Usage:       "Run name, read from <data-dir>/<run>/eDeposit.txt",
						Destination: &pc.run,
					},
					&cli.StringFlag{
						Name:        "input",
						Aliases:     []string{"i"},
						Usage:       "Deposit file, overrides --run",
						Destination: &pc.input,
					},
					&cli.StringFlag{
						Name:        "data-dir",
						Aliases:     []string{"d"},
						Usage:       "Directory holding the run directories",
						Value:       "data",
						EnvVars:     []string{"DRS4ANA_DATA_DIR"},
						Destination: &pc.dataDir,
					},
					&cli.IntFlag{
						Name:        "bins",
						Aliases:     []string{"b"},
						Usage:       "Number of histogram bins",
						Value:       200,
						Destination: &pc.bins,
					},
					&cli.IntFlag{
						Name:        "window",
						Aliases:     []string{"w"},
						Usage:       "Peak search window in bins",
						Value:       20,
						Destination: &pc.window,
					},
					&cli.BoolFlag{
						Name:        "symmetric",
						Usage:       "Re-center the search window on every bin, boundaries included",
						Destination: &pc.symmetric,
					},
					&cli.BoolFlag{
						Name:        "no-chart",
						Usage:       "Skip writing " + report.ChartFileName,
						Destination: &pc.noChart,
					},
				},
			},
			{
				Name:    "energy",
				Aliases: []string{"e"},
				Usage:   "Integrate the pulses of a DRS4 binary file into a deposit file",
				Action: func(cCtx *cli.Context) error {
					ctx, cancel := setupSignalHandling(cCtx.Context)
					defer cancel()
					_, err := extractDeposits(ctx, ec)
					return err
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "file",
						Aliases:     []string{"f"},
						Usage:       "DRS4 binary waveform file",
						Destination: &ec.file,
						Required:    true,
					},
					&cli.StringFlag{
						Name:        "run",
						Aliases:     []string{"r"},
						Usage:       "Run name, written to <data-dir>/<run>/eDeposit.txt",
						Destination: &ec.run,
					},
					&cli.StringFlag{
						Name:        "data-dir",
						Aliases:     []string{"d"},
						Usage:       "Directory holding the run directories",
						Value:       "data",
						EnvVars:     []string{"DRS4ANA_DATA_DIR"},
						Destination: &ec.dataDir,
					},
					&cli.StringFlag{
						Name:        "output",
						Aliases:     []string{"o"},
						Usage:       "Deposit file, overrides --run",
						Destination: &ec.output,
					},
					&cli.IntFlag{
						Name:        "channel",
						Aliases:     []string{"c"},
						Usage:       "Channel to integrate, 1 to 4",
						Value:       1,
						Destination: &ec.channel,
					},
					&cli.Float64Flag{
						Name:        "trigger",
						Usage:       "Trigger level in V",
						Value:       charge.DefaultParams.TriggerLevel,
						Destination: &ec.params.TriggerLevel,
					},
					&cli.Float64Flag{
						Name:        "neg-offset",
						Usage:       "Integration start before the trigger crossing in ns",
						Value:       charge.DefaultParams.NegOffset,
						Destination: &ec.params.NegOffset,
					},
					&cli.Float64Flag{
						Name:        "integrate",
						Usage:       "Integration window in ns",
						Value:       charge.DefaultParams.Window,
						Destination: &ec.params.Window,
					},
					&cli.BoolFlag{
						Name:        "rising",
						Usage:       "Trigger on rising edges (positive pulses)",
						Destination: &ec.params.RisingEdge,
					},
					&cli.IntFlag{
						Name:        "start",
						Usage:       "First event index",
						Destination: &ec.start,
					},
					&cli.IntFlag{
						Name:        "end",
						Usage:       "Last event index, -1 for all",
						Value:       -1,
						Destination: &ec.end,
					},
					&cli.StringFlag{
						Name:        "offsets",
						Usage:       "Voltage offset calibration file",
						EnvVars:     []string{"DRS4ANA_OFFSETS"},
						Destination: &ec.offsets,
					},
					&cli.Float64Flag{
						Name:        "smooth",
						Usage:       "Low-pass cutoff as a fraction of the sampling rate, 0 disables",
						Destination: &ec.smooth,
					},
					&cli.IntFlag{
						Name:        "smooth-len",
						Usage:       "Smoothing kernel length (even)",
						Value:       20,
						Destination: &ec.smoothLen,
					},
				},
			},
			{
				Name:    "waveform",
				Aliases: []string{"w"},
				Usage:   "Chart the waveforms of one event",
				Action: func(cCtx *cli.Context) error {
					return drawWaveform(wc)
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "file",
						Aliases:     []string{"f"},
						Usage:       "DRS4 binary waveform file",
						Destination: &wc.file,
						Required:    true,
					},
					&cli.IntFlag{
						Name:        "event",
						Aliases:     []string{"e"},
						Usage:       "Event index",
						Destination: &wc.event,
					},
					&cli.StringFlag{
						Name:        "output",
						Aliases:     []string{"o"},
						Usage:       "Chart file",
						Value:       "waveform.html",
						Destination: &wc.output,
					},
					&cli.StringFlag{
						Name:        "offsets",
						Usage:       "Voltage offset calibration file",
						EnvVars:     []string{"DRS4ANA_OFFSETS"},
						Destination: &wc.offsets,
					},
				},
			},
			{
				Name:  "calibrate",
				Usage: "Average a pedestal run into a voltage offset calibration file",
				Action: func(cCtx *cli.Context) error {
					return calibrateOffsets(cc)
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "file",
						Aliases:     []string{"f"},
						Usage:       "DRS4 binary file recorded without input signal",
						Destination: &cc.file,
						Required:    true,
					},
					&cli.IntFlag{
						Name:        "events",
						Aliases:     []string{"n"},
						Usage:       "Number of events to average",
						Value:       100,
						Destination: &cc.events,
					},
					&cli.StringFlag{
						Name:        "output",
						Aliases:     []string{"o"},
						Usage:       "Calibration file",
						Value:       "offset_calib.dat",
						Destination: &cc.output,
					},
				},
			},
			{
				Name:  "extract",
				Usage: "Copy a range of events into a new DRS4 binary file",
				Action: func(cCtx *cli.Context) error {
					_, err := extractEvents(xc)
					return err
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "file",
						Aliases:     []string{"f"},
						Usage:       "DRS4 binary waveform file",
						Destination: &xc.file,
						Required:    true,
					},
					&cli.IntFlag{
						Name:        "start",
						Usage:       "First event index",
						Destination: &xc.start,
					},
					&cli.IntFlag{
						Name:        "end",
						Usage:       "Last event index",
						Destination: &xc.end,
						Required:    true,
					},
					&cli.StringFlag{
						Name:        "output",
						Aliases:     []string{"o"},
						Usage:       "Output file",
						Destination: &xc.output,
						Required:    true,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
