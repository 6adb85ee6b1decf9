package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/pkg/errors"

	"github.com/VictorDenisov/drs4ana/drs4"
	"github.com/VictorDenisov/drs4ana/histogram"
)

// ChartFileName is the name of the histogram page inside a run directory.
const ChartFileName = "hist.html"

type ChartOptions struct {
	Title  string
	XLabel string
	Width  string
	Height string
}

var DefaultChartOptions = ChartOptions{
	Title:  "Histogram of charge deposited on ADC",
	XLabel: "charge deposited",
	Width:  "1800px",
	Height: "600px",
}

// HistogramChart renders h twice, with a linear and a log count axis, with
// the peaks overlaid as red markers.
func HistogramChart(w io.Writer, h *histogram.Histogram, ps []Peak, o ChartOptions) error {
	labels := binLabels(h)
	subtitle := fmt.Sprintf("Total # Events = %d", h.Total())

	linear := histogramBar(h, labels, false, o, o.Title, subtitle)
	linear.Overlap(peakScatter(labels, ps))

	logarithmic := histogramBar(h, labels, true, o, "Histogram of log(charge) deposited on ADC", subtitle)
	logarithmic.Overlap(peakScatter(labels, ps))

	page := components.NewPage()
	page.PageTitle = o.Title
	page.AddCharts(linear, logarithmic)
	return errors.Wrap(page.Render(w), "rendering histogram")
}

func binLabels(h *histogram.Histogram) []string {
	centers := h.Centers()
	labels := make([]string, len(centers))
	for i, c := range centers {
		labels[i] = fmt.Sprintf("%.3g", c)
	}
	return labels
}

func histogramBar(h *histogram.Histogram, labels []string, logScale bool, o ChartOptions, title, subtitle string) *charts.Bar {
	bar := charts.NewBar()
	yAxis := opts.YAxis{Name: "# count"}
	if logScale {
		yAxis.Type = "log"
	}
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: o.Width, Height: o.Height}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true}),
		charts.WithLegendOpts(opts.Legend{Show: true, Right: "10%"}),
		charts.WithXAxisOpts(opts.XAxis{Name: o.XLabel}),
		charts.WithYAxisOpts(yAxis),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", Start: 0, End: 100}),
	)

	data := make([]opts.BarData, len(h.Counts))
	for i, c := range h.Counts {
		if logScale && c == 0 {
			// Empty bins have no place on a log axis.
			data[i] = opts.BarData{Value: "-"}
			continue
		}
		data[i] = opts.BarData{Value: c}
	}
	bar.SetXAxis(labels).AddSeries("counts", data)
	return bar
}

func peakScatter(labels []string, ps []Peak) *charts.Scatter {
	scatter := charts.NewScatter()
	data := make([]opts.ScatterData, len(ps))
	for i, p := range ps {
		data[i] = opts.ScatterData{Value: []interface{}{labels[p.Index], p.Count}, SymbolSize: 12}
	}
	scatter.SetXAxis(labels).AddSeries("identified peaks", data,
		charts.WithItemStyleOpts(opts.ItemStyle{Color: "red"}))
	return scatter
}

// WaveformChart renders the voltage of every channel of e against the
// calibrated time of the first channel.
func WaveformChart(w io.Writer, e *drs4.Event, title string) error {
	chs := e.Channels()
	if len(chs) == 0 {
		return errors.Errorf("event %d has no channels", e.Serial)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "1200px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: fmt.Sprintf("event %d, %s", e.Serial, e.Timestamp.Format("2006-01-02 15:04:05.000")),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: true, Right: "10%"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "time (ns)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "voltage (V)"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", Start: 0, End: 100}),
	)

	ref := chs[0]
	labels := make([]string, drs4.NumCells)
	for i := range labels {
		labels[i] = fmt.Sprintf("%.2f", e.Time[ref][i])
	}
	line.SetXAxis(labels)
	for _, ch := range chs {
		data := make([]opts.LineData, drs4.NumCells)
		for i := range data {
			data[i] = opts.LineData{Value: e.Voltage[ch][i]}
		}
		line.AddSeries(fmt.Sprintf("CH%d", ch+1), data)
	}
	return errors.Wrap(line.Render(w), "rendering waveform")
}
