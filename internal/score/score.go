// Package score turns session counters into 0-100 scores and classifies
// sustained-attention drift.
package score

import "math"

// Counters are the final classification counts of a session.
type Counters struct {
	Hits         int
	Misses       int
	FalseTaps    int
	TotalTargets int
	Trials       int
}

// Session computes the 0-100 session score.
//
// With no target trials the score is 100 minus 20 per false tap. Otherwise
// the hit rate is reduced by a false-tap penalty (scaled by the number of
// non-target trials) and two points per miss, then clamped to [0,100].
func Session(c Counters) int {
	if c.TotalTargets == 0 {
		if c.FalseTaps == 0 {
			return 100
		}
		return clamp(100 - 20*c.FalseTaps)
	}
	hitRate := 100 * float64(c.Hits) / float64(c.TotalTargets)
	nonTargets := c.Trials - c.TotalTargets
	var falseTapPenalty float64
	if nonTargets > 0 {
		falseTapPenalty = 50 * float64(c.FalseTaps) / float64(nonTargets)
	} else {
		falseTapPenalty = 10 * float64(c.FalseTaps)
	}
	missPenalty := 2 * float64(c.Misses)
	return clamp(int(math.Round(hitRate - falseTapPenalty - missPenalty)))
}

// QuarterCounters are the counts for one temporal quarter.
type QuarterCounters struct {
	Hits      int
	Misses    int
	FalseTaps int
	Targets   int
}

// Quarter scores one quarter independently: with no targets the no-target
// rule applies, otherwise the quarter's raw hit rate.
func Quarter(q QuarterCounters) int {
	if q.Targets == 0 {
		if q.FalseTaps == 0 {
			return 100
		}
		return clamp(100 - 20*q.FalseTaps)
	}
	return clamp(int(math.Round(100 * float64(q.Hits) / float64(q.Targets))))
}

// Quarters scores each quarter of a vigilance session.
func Quarters(qs []QuarterCounters) []int {
	out := make([]int, len(qs))
	for i, q := range qs {
		out[i] = Quarter(q)
	}
	return out
}

// Band is a qualitative attention-drift classification.
type Band string

// Drift bands.
const (
	BandStrongFade        Band = "strong-fade"
	BandSlightFade        Band = "slight-fade"
	BandStrongImprovement Band = "strong-improvement"
	BandMildImprovement   Band = "mild-improvement"
	BandRockSteady        Band = "rock-steady"
	BandSteady            Band = "steady"
	BandVariable          Band = "variable"
	BandLow               Band = "low"
)

// Label returns the band's human-readable description.
func (b Band) Label() string {
	switch b {
	case BandStrongFade:
		return "Strong fade: sharp drop in the second half"
	case BandSlightFade:
		return "Slight fade: attention dipped late in the session"
	case BandStrongImprovement:
		return "Strong improvement: warmed up considerably"
	case BandMildImprovement:
		return "Mild improvement: second half was better"
	case BandRockSteady:
		return "Rock steady: consistently sharp throughout"
	case BandSteady:
		return "Steady: held attention well"
	case BandVariable:
		return "Variable: attention came and went"
	default:
		return "Low: attention was hard to sustain"
	}
}

// Drift returns firstHalfAvg - secondHalfAvg over the four quarter scores.
// Positive drift means performance faded.
func Drift(quarterScores []int) float64 {
	if len(quarterScores) < 4 {
		return 0
	}
	first := float64(quarterScores[0]+quarterScores[1]) / 2
	second := float64(quarterScores[2]+quarterScores[3]) / 2
	return first - second
}

// Classify selects the drift band for a vigilance session. Drift beyond
// +/-10 and +/-20 points picks a fade/improvement band; within +/-10 the
// band follows the absolute average score.
func Classify(quarterScores []int) Band {
	drift := Drift(quarterScores)
	switch {
	case drift > 20:
		return BandStrongFade
	case drift > 10:
		return BandSlightFade
	case drift < -20:
		return BandStrongImprovement
	case drift < -10:
		return BandMildImprovement
	}
	avg := 0.0
	if len(quarterScores) > 0 {
		sum := 0
		for _, s := range quarterScores {
			sum += s
		}
		avg = float64(sum) / float64(len(quarterScores))
	}
	switch {
	case avg >= 90:
		return BandRockSteady
	case avg >= 70:
		return BandSteady
	case avg >= 50:
		return BandVariable
	default:
		return BandLow
	}
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
