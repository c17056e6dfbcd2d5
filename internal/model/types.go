// Package model defines shared data structures.
package model

import "time"

// Session kinds.
const (
	KindFreeplay  = "freeplay"
	KindCampaign  = "campaign"
	KindVigilance = "vigilance"
)

// SessionRecord captures a completed session for persistence.
type SessionRecord struct {
	StartedAt    time.Time
	EndedAt      time.Time
	Kind         string
	ModeID       string
	Difficulty   string
	Level        int // 0 outside campaign
	Score        int
	Hits         int
	Misses       int
	FalseTaps    int
	TotalTargets int
	Trials       int
	RTSumMs      int64
	RTCount      int64
	DurationMs   int64
}

// AvgReactionMs returns the mean reaction time, or 0 with no hits.
func (r SessionRecord) AvgReactionMs() float64 {
	if r.RTCount == 0 {
		return 0
	}
	return float64(r.RTSumMs) / float64(r.RTCount)
}

// QuarterRecord stores one temporal quarter of a vigilance session.
type QuarterRecord struct {
	Quarter   int
	Hits      int
	Misses    int
	FalseTaps int
	Targets   int
	RTSumMs   int64
	RTCount   int64
	Score     int
}

// SessionSummary is the payload submitted to the remote result sink.
type SessionSummary struct {
	Kind           string    `json:"gameMode"`
	ModeID         string    `json:"mode"`
	Difficulty     string    `json:"difficulty,omitempty"`
	Level          int       `json:"level,omitempty"`
	Score          int       `json:"score"`
	Hits           int       `json:"hits"`
	Misses         int       `json:"misses"`
	FalseTaps      int       `json:"falseTaps"`
	TotalTargets   int       `json:"totalTargets"`
	AvgReactionMs  float64   `json:"avgReactionTimeMs,omitempty"`
	QuarterScores  []int     `json:"quarterScores,omitempty"`
	QuarterRTMs    []float64 `json:"quarterReactionTimesMs,omitempty"`
	AttentionBand  string    `json:"attentionBand,omitempty"`
	PlayedAt       time.Time `json:"playedAt"`
	SessionTrials  int       `json:"trials"`
	SessionSeconds float64   `json:"durationSeconds"`
}

// SessionAggregate summarizes a stored session for reporting.
type SessionAggregate struct {
	SessionID    int64
	EndedAt      time.Time
	Kind         string
	ModeID       string
	Difficulty   string
	Level        int
	Score        int
	Hits         int
	Misses       int
	FalseTaps    int
	TotalTargets int
	Trials       int
	RTSumMs      int64
	RTCount      int64
	DurationMs   int64
}

// AvgReactionMs returns the mean reaction time, or 0 with no hits.
func (a SessionAggregate) AvgReactionMs() float64 {
	if a.RTCount == 0 {
		return 0
	}
	return float64(a.RTSumMs) / float64(a.RTCount)
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Kind        string
	ModeID      string
	Since       *time.Time
	Last        int
	CurveWindow int
}
