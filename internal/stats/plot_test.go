package stats

import (
	"bytes"
	"strings"
	"testing"
)

func TestPlotSeries(t *testing.T) {
	var buf bytes.Buffer
	series := []Series{
		{Name: "Score", Values: []float64{10, 50, 90}},
		{Name: "Reaction ms", Values: []float64{400, 350, 300}},
	}
	if err := PlotSeries(&buf, "Progress", series, 30, 6); err != nil {
		t.Fatalf("plot series: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Progress") {
		t.Fatalf("missing title:\n%s", out)
	}
	if !strings.Contains(out, "Score: min=10.0 max=90.0") {
		t.Fatalf("missing series range:\n%s", out)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) < 6 {
		t.Fatalf("plot too short:\n%s", out)
	}
}

func TestPlotSeriesEmptyInput(t *testing.T) {
	var buf bytes.Buffer
	if err := PlotSeries(&buf, "x", []Series{{Name: "empty"}}, 20, 5); err != nil {
		t.Fatalf("plot empty: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("empty series must produce no output, got %q", buf.String())
	}
}

func TestPlotWidthFor(t *testing.T) {
	if got := PlotWidthFor(80); got != 80-6 {
		t.Fatalf("PlotWidthFor(80) = %d, want %d", got, 74)
	}
	if got := PlotWidthFor(5); got != minPlotWidth {
		t.Fatalf("narrow terminals clamp to %d, got %d", minPlotWidth, got)
	}
	if got := PlotWidthFor(0); got != minPlotWidth {
		t.Fatalf("zero width clamps to %d, got %d", minPlotWidth, got)
	}
}

func TestResample(t *testing.T) {
	up := resample([]float64{0, 10}, 5)
	if len(up) != 5 || up[0] != 0 || up[4] != 10 {
		t.Fatalf("upsample = %v", up)
	}
	down := resample([]float64{1, 1, 5, 5}, 2)
	if len(down) != 2 || down[0] != 1 || down[1] != 5 {
		t.Fatalf("downsample = %v", down)
	}
	if resample(nil, 4) != nil {
		t.Fatalf("nil input must resample to nil")
	}
}
