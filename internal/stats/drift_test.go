package stats

import (
	"testing"

	"github.com/verte-zerg/blip/internal/model"
	"github.com/verte-zerg/blip/internal/score"
)

func TestQuarterScores(t *testing.T) {
	quarters := []model.QuarterRecord{
		{Quarter: 0, Hits: 2, Targets: 2},
		{Quarter: 1, Hits: 1, Misses: 1, Targets: 2},
		{Quarter: 2, FalseTaps: 1},
		{Quarter: 3},
	}
	got := QuarterScores(quarters)
	want := []int{100, 50, 80, 100}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("quarter %d score = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestQuarterReactionMs(t *testing.T) {
	quarters := []model.QuarterRecord{
		{Quarter: 0, RTSumMs: 600, RTCount: 2},
		{Quarter: 1},
	}
	got := QuarterReactionMs(quarters)
	if got[0] != 300 || got[1] != 0 {
		t.Fatalf("quarter reactions = %v", got)
	}
}

func TestSummarizeDrift(t *testing.T) {
	sessions := []model.SessionAggregate{
		{SessionID: 1, Kind: model.KindVigilance},
		{SessionID: 2, Kind: model.KindFreeplay},
	}
	quarters := map[int64][]model.QuarterRecord{
		1: {
			{Quarter: 0, Hits: 2, Targets: 2},
			{Quarter: 1, Hits: 2, Targets: 2},
			{Quarter: 2, Hits: 1, Misses: 1, Targets: 2},
			{Quarter: 3, Misses: 2, Targets: 2},
		},
	}
	got := SummarizeDrift(sessions, quarters)
	if len(got) != 1 {
		t.Fatalf("expected one summary, got %d", len(got))
	}
	if got[0].SessionID != 1 || got[0].Drift != 75 {
		t.Fatalf("summary = %+v", got[0])
	}
	if got[0].Band != score.BandStrongFade {
		t.Fatalf("band = %s, want %s", got[0].Band, score.BandStrongFade)
	}
}
