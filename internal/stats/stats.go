// Package stats contains statistics calculations and reporting.
package stats

import (
	"math"
	"strings"

	"github.com/verte-zerg/blip/internal/model"
)

const sparkChars = " .:-=+*#%@"

// SessionMetrics derives display metrics for one stored session.
func SessionMetrics(agg model.SessionAggregate) (hitRate, avgReactionMs float64) {
	if agg.TotalTargets > 0 {
		hitRate = float64(agg.Hits) / float64(agg.TotalTargets)
	}
	return hitRate, agg.AvgReactionMs()
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// ScoreSeries extracts session scores in order.
func ScoreSeries(sessions []model.SessionAggregate) []float64 {
	out := make([]float64, len(sessions))
	for i, s := range sessions {
		out[i] = float64(s.Score)
	}
	return out
}

// ReactionSeries extracts average reaction times in order. Sessions with
// no hits contribute zero.
func ReactionSeries(sessions []model.SessionAggregate) []float64 {
	out := make([]float64, len(sessions))
	for i, s := range sessions {
		out[i] = s.AvgReactionMs()
	}
	return out
}
