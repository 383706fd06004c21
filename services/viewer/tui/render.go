package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/iulianpascalau/electric-monitoring/services/viewer/common"
)

const (
	timeLayout     = "2006-01-02 15:04:05"
	minChartWidth  = 30
	minChartHeight = 5
	axisLabelWidth = 12
)

var seriesColors = []asciigraph.AnsiColor{
	asciigraph.Green,
	asciigraph.Yellow,
	asciigraph.Blue,
	asciigraph.Red,
	asciigraph.Magenta,
	asciigraph.Cyan,
}

// Resample maps one column of the samples onto width points evenly spread over the window. Every point holds the
// last value at or before its time; absent values carry the previous value forward
func Resample(samples []common.Sample, col int, window common.Viewport, width int) []float64 {
	if width <= 0 || !window.Set {
		return nil
	}

	current, found := firstValid(samples, col)
	if !found {
		return nil
	}

	span := float64(window.End - window.Start)
	result := make([]float64, width)
	j := 0
	for i := 0; i < width; i++ {
		t := window.End
		if width > 1 {
			t = window.Start + common.Timestamp(math.Round(span*float64(i)/float64(width-1)))
		}

		for j < len(samples) && samples[j].Timestamp <= t {
			if col < len(samples[j].Values) && samples[j].Values[col].Valid {
				current = samples[j].Values[col].Number
			}
			j++
		}
		result[i] = current
	}

	return result
}

func firstValid(samples []common.Sample, col int) (float64, bool) {
	for _, s := range samples {
		if col < len(s.Values) && s.Values[col].Valid {
			return s.Values[col].Number, true
		}
	}

	return 0, false
}

// FormatValue renders a number with a metric prefix and the unit suffix
func FormatValue(val float64, suffix string) string {
	abs := math.Abs(val)
	var text string
	switch {
	case abs >= 1000000:
		text = fmt.Sprintf("%.2fM", val/1000000)
	case abs >= 1000:
		text = fmt.Sprintf("%.2fk", val/1000)
	case abs >= 10 || abs == 0:
		text = fmt.Sprintf("%.1f", val)
	default:
		text = fmt.Sprintf("%.3f", val)
	}

	return strings.TrimSpace(text + suffix)
}

// FormatTimestamp renders a display clock timestamp
func FormatTimestamp(ts common.Timestamp) string {
	return ts.Time().Format(timeLayout)
}

// RenderChart plots every column of the table over the zoom window of the options
func RenderChart(table *common.SeriesTable, opts common.DrawOptions, width int, height int) string {
	if table == nil || len(table.Samples) == 0 || !opts.Zoom.Set {
		return "\n[gray]No data[white]"
	}

	plotWidth := width - axisLabelWidth
	if plotWidth < minChartWidth {
		plotWidth = minChartWidth
	}
	plotHeight := height - 4
	if plotHeight < minChartHeight {
		plotHeight = minChartHeight
	}

	series := make([][]float64, 0, table.NumColumns())
	colors := make([]asciigraph.AnsiColor, 0, table.NumColumns())
	legend := make([]string, 0, table.NumColumns())
	for col := 0; col < table.NumColumns(); col++ {
		points := Resample(table.Samples, col, opts.Zoom, plotWidth)
		if len(points) == 0 {
			continue
		}

		color := seriesColors[len(series)%len(seriesColors)]
		series = append(series, points)
		colors = append(colors, color)
		legend = append(legend, fmt.Sprintf("%s %s", table.Labels[col], FormatValue(points[len(points)-1], opts.ValueSuffix)))
	}
	if len(series) == 0 {
		return "\n[gray]No data in the visible range[white]"
	}

	options := []asciigraph.Option{
		asciigraph.Height(plotHeight),
		asciigraph.Precision(1),
		asciigraph.SeriesColors(colors...),
		asciigraph.Caption(fmt.Sprintf("%s  ..  %s", FormatTimestamp(opts.Zoom.Start), FormatTimestamp(opts.Zoom.End))),
	}
	if opts.Min != nil {
		options = append(options, asciigraph.LowerBound(*opts.Min))
	}
	if opts.Max != nil {
		options = append(options, asciigraph.UpperBound(*opts.Max))
	}

	graph := asciigraph.PlotMany(series, options...)

	return strings.Join(legend, "  |  ") + "\n" + graph
}
