// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/mattn/go-runewidth"
)

// Series represents a named data series for plotting.
type Series struct {
	Name   string
	Values []float64
}

const (
	defaultPlotHeight   = 10
	minPlotWidth        = 10
	axisSeparator       = " | "
	terminalWidthBackup = 80
)

var seriesMarkers = []rune{'*', 'o', '+', 'x'}

// PlotSeries renders a multi-line text plot for the provided series. Each
// series is scaled independently to the plot height; min/max are printed
// above the plot so the axis stays readable.
func PlotSeries(w io.Writer, title string, series []Series, width, height int) error {
	plotted := make([]Series, 0, len(series))
	for _, s := range series {
		if len(s.Values) > 0 {
			plotted = append(plotted, s)
		}
	}
	if len(plotted) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}

	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}

	grid := make([][]rune, height)
	for y := range grid {
		grid[y] = make([]rune, width)
		for x := range grid[y] {
			grid[y][x] = ' '
		}
	}

	for si, s := range plotted {
		values := resample(s.Values, width)
		minVal, maxVal := minMax(values)
		if _, err := fmt.Fprintf(w, "%s: min=%.1f max=%.1f\n", s.Name, minVal, maxVal); err != nil {
			return err
		}
		if math.Abs(maxVal-minVal) < 1e-9 {
			maxVal = minVal + 1
		}
		marker := seriesMarkers[si%len(seriesMarkers)]
		for x, v := range values {
			pos := (v - minVal) / (maxVal - minVal)
			y := int(math.Round((1 - pos) * float64(height-1)))
			if y < 0 {
				y = 0
			}
			if y >= height {
				y = height - 1
			}
			grid[y][x] = marker
		}
	}

	axisWidth := runewidth.StringWidth("100")
	for y := 0; y < height; y++ {
		label := ""
		switch y {
		case 0:
			label = "max"
		case height - 1:
			label = "min"
		}
		prefix := fmt.Sprintf("%*s%s", axisWidth, label, axisSeparator)
		if _, err := fmt.Fprintln(w, prefix+strings.TrimRight(string(grid[y]), " ")); err != nil {
			return err
		}
	}

	legend := make([]string, 0, len(plotted))
	for si, s := range plotted {
		legend = append(legend, fmt.Sprintf("%c %s", seriesMarkers[si%len(seriesMarkers)], s.Name))
	}
	if _, err := fmt.Fprintln(w, "Legend: "+strings.Join(legend, "  ")); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	plotWidth := totalWidth - runewidth.StringWidth("100") - runewidth.StringWidth(axisSeparator)
	if plotWidth < minPlotWidth {
		plotWidth = minPlotWidth
	}
	return plotWidth
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// resample stretches or compresses values to exactly width samples.
func resample(values []float64, width int) []float64 {
	if len(values) == 0 || width <= 0 {
		return nil
	}
	if len(values) == width {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, width)
	if len(values) > width {
		for i := 0; i < width; i++ {
			start := i * len(values) / width
			end := (i + 1) * len(values) / width
			if end <= start {
				end = start + 1
			}
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
		return out
	}
	if len(values) == 1 || width == 1 {
		for i := range out {
			out[i] = values[0]
		}
		return out
	}
	for i := 0; i < width; i++ {
		pos := float64(i) * float64(len(values)-1) / float64(width-1)
		idx := int(math.Floor(pos))
		if idx >= len(values)-1 {
			out[i] = values[len(values)-1]
			continue
		}
		frac := pos - float64(idx)
		out[i] = values[idx]*(1-frac) + values[idx+1]*frac
	}
	return out
}

func minMax(values []float64) (float64, float64) {
	minVal := math.Inf(1)
	maxVal := math.Inf(-1)
	for _, v := range values {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.IsInf(minVal, 1) {
		minVal = 0
	}
	if math.IsInf(maxVal, -1) {
		maxVal = 0
	}
	return minVal, maxVal
}
