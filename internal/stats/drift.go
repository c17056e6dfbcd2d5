package stats

import (
	"github.com/verte-zerg/blip/internal/model"
	"github.com/verte-zerg/blip/internal/score"
)

// QuarterScores recomputes the four quarter scores from stored counters.
func QuarterScores(quarters []model.QuarterRecord) []int {
	out := make([]int, len(quarters))
	for i, q := range quarters {
		out[i] = score.Quarter(score.QuarterCounters{
			Hits:      q.Hits,
			Misses:    q.Misses,
			FalseTaps: q.FalseTaps,
			Targets:   q.Targets,
		})
	}
	return out
}

// QuarterReactionMs returns the mean reaction time per quarter, zero when
// a quarter recorded no hits.
func QuarterReactionMs(quarters []model.QuarterRecord) []float64 {
	out := make([]float64, len(quarters))
	for i, q := range quarters {
		if q.RTCount > 0 {
			out[i] = float64(q.RTSumMs) / float64(q.RTCount)
		}
	}
	return out
}

// DriftSummary holds the sustained-attention analysis of one vigilance
// session.
type DriftSummary struct {
	SessionID     int64
	QuarterScores []int
	Drift         float64
	Band          score.Band
}

// SummarizeDrift classifies every vigilance session that has a quarter
// breakdown, in session order.
func SummarizeDrift(sessions []model.SessionAggregate, quarters map[int64][]model.QuarterRecord) []DriftSummary {
	var out []DriftSummary
	for _, s := range sessions {
		qs, ok := quarters[s.SessionID]
		if !ok || len(qs) == 0 {
			continue
		}
		scores := QuarterScores(qs)
		out = append(out, DriftSummary{
			SessionID:     s.SessionID,
			QuarterScores: scores,
			Drift:         score.Drift(scores),
			Band:          score.Classify(scores),
		})
	}
	return out
}
