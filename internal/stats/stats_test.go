package stats

import (
	"testing"

	"github.com/verte-zerg/blip/internal/model"
)

func TestMovingAverage(t *testing.T) {
	values := []float64{10, 20, 30, 40}
	got := MovingAverage(values, 2)
	want := []float64{10, 15, 25, 35}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("MovingAverage[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	got = MovingAverage(values, 1)
	for i := range values {
		if got[i] != values[i] {
			t.Fatalf("window 1 must copy input, got %v", got)
		}
	}
}

func TestSparkline(t *testing.T) {
	line := Sparkline([]float64{0, 50, 100})
	if len([]rune(line)) != 3 {
		t.Fatalf("sparkline length = %d, want 3", len(line))
	}
	if line[0] != ' ' || line[2] != '@' {
		t.Fatalf("sparkline extremes wrong: %q", line)
	}
	flat := Sparkline([]float64{5, 5, 5})
	if len(flat) != 3 || flat[0] != flat[1] {
		t.Fatalf("flat sparkline wrong: %q", flat)
	}
	if Sparkline(nil) != "" {
		t.Fatalf("empty input must yield empty sparkline")
	}
}

func TestSessionMetrics(t *testing.T) {
	agg := model.SessionAggregate{Hits: 8, TotalTargets: 10, RTSumMs: 2400, RTCount: 8}
	hitRate, avgRT := SessionMetrics(agg)
	if hitRate != 0.8 {
		t.Fatalf("hit rate = %v, want 0.8", hitRate)
	}
	if avgRT != 300 {
		t.Fatalf("avg reaction = %v, want 300", avgRT)
	}

	hitRate, avgRT = SessionMetrics(model.SessionAggregate{})
	if hitRate != 0 || avgRT != 0 {
		t.Fatalf("empty session metrics = %v/%v, want 0/0", hitRate, avgRT)
	}
}

func TestScoreAndReactionSeries(t *testing.T) {
	sessions := []model.SessionAggregate{
		{Score: 70, RTSumMs: 500, RTCount: 2},
		{Score: 90},
	}
	scores := ScoreSeries(sessions)
	if scores[0] != 70 || scores[1] != 90 {
		t.Fatalf("score series = %v", scores)
	}
	reactions := ReactionSeries(sessions)
	if reactions[0] != 250 || reactions[1] != 0 {
		t.Fatalf("reaction series = %v", reactions)
	}
}
