// Package engine runs the trial/session state machine.
package engine

import (
	"time"

	"github.com/verte-zerg/blip/internal/game"
	"github.com/verte-zerg/blip/internal/level"
)

// Status is the session lifecycle state.
type Status int

// Session states.
const (
	StatusIdle Status = iota
	StatusRunning
	StatusFinished
)

// NumQuarters splits a vigilance session into equal temporal segments.
const NumQuarters = 4

// Trial describes what the presentation layer should display for one
// stimulus window.
type Trial struct {
	// Seq increments with every presented trial. Expiry notifications
	// carry it back so a stale timer firing after a tap-driven advance
	// (or an abort) is a no-op.
	Seq       int
	Index     int // 1-based
	Stimuli   []game.Stimulus
	IsTarget  bool
	Duration  time.Duration
	Moving    bool
	StartedAt time.Time
}

// Outcome classifies a response.
type Outcome int

// Tap outcomes.
const (
	OutcomeHit Outcome = iota
	OutcomeFalseTap
)

// QuarterCounters mirrors the session counters for one temporal quarter
// of a vigilance session.
type QuarterCounters struct {
	Hits          int
	Misses        int
	FalseTaps     int
	Targets       int
	ReactionTimes []time.Duration
}

// Session is the mutable state for one run. It is owned by exactly one
// caller; all methods are driven from a single logical thread (the Bubble
// Tea update loop in production, plain calls in tests).
type Session struct {
	mode game.Mode
	cfg  level.TrialConfig
	rng  game.Rand

	status     Status
	trialSeq   int
	trialIndex int

	hits         int
	misses       int
	falseTaps    int
	totalTargets int

	reactionTimes []time.Duration
	quarters      [NumQuarters]QuarterCounters

	current   Trial
	responded bool
}

// New prepares an idle session. cfg must be fully derived (preset or
// campaign level) before it reaches the engine.
func New(mode game.Mode, cfg level.TrialConfig, rng game.Rand) *Session {
	return &Session{mode: mode, cfg: cfg, rng: rng}
}

// Status returns the lifecycle state.
func (s *Session) Status() Status { return s.status }

// Mode returns the active mode.
func (s *Session) Mode() game.Mode { return s.mode }

// Config returns the session's trial configuration.
func (s *Session) Config() level.TrialConfig { return s.cfg }

// Counters returns the accumulated classification counts. For finished
// sessions hits+misses equals totalTargets.
func (s *Session) Counters() (hits, misses, falseTaps, totalTargets int) {
	return s.hits, s.misses, s.falseTaps, s.totalTargets
}

// Trials returns the configured trial count.
func (s *Session) Trials() int { return s.cfg.Trials }

// TrialIndex returns the 1-based index of the current trial.
func (s *Session) TrialIndex() int { return s.trialIndex }

// ReactionTimes returns one entry per hit, in trial order.
func (s *Session) ReactionTimes() []time.Duration { return s.reactionTimes }

// Quarters returns the per-quarter counters. Only vigilance sessions
// populate them.
func (s *Session) Quarters() [NumQuarters]QuarterCounters { return s.quarters }

// Current returns the trial being presented.
func (s *Session) Current() Trial { return s.current }

// Start moves idle -> running and presents the first trial.
func (s *Session) Start(now time.Time) (Trial, bool) {
	if s.status != StatusIdle {
		return Trial{}, false
	}
	s.status = StatusRunning
	return s.nextTrial(now)
}

// Tap records the player's response for the current trial. The first tap
// in a trial window classifies it as a hit or false tap; every later tap
// is ignored. The bool reports whether the tap was consumed.
func (s *Session) Tap(now time.Time) (Outcome, bool) {
	if s.status != StatusRunning || s.responded {
		return 0, false
	}
	s.responded = true
	q := s.quarterFor(s.current.Index)
	if s.current.IsTarget {
		s.hits++
		rt := now.Sub(s.current.StartedAt)
		s.reactionTimes = append(s.reactionTimes, rt)
		if s.mode.IsVigilance() {
			s.quarters[q].Hits++
			s.quarters[q].ReactionTimes = append(s.quarters[q].ReactionTimes, rt)
		}
		return OutcomeHit, true
	}
	s.falseTaps++
	if s.mode.IsVigilance() {
		s.quarters[q].FalseTaps++
	}
	return OutcomeFalseTap, true
}

// ExpireTrial handles the countdown boundary for trial seq: an unanswered
// target becomes a miss, then the next trial is presented (or the session
// finishes). A stale or repeated seq is a no-op, which makes countdown
// cancellation idempotent.
func (s *Session) ExpireTrial(seq int, now time.Time) (Trial, bool) {
	if s.status != StatusRunning || seq != s.current.Seq {
		return Trial{}, false
	}
	if s.current.IsTarget && !s.responded {
		s.misses++
		if s.mode.IsVigilance() {
			s.quarters[s.quarterFor(s.current.Index)].Misses++
		}
	}
	return s.nextTrial(now)
}

// Abort halts scheduling. Recorded counters stand; the in-flight trial
// stays unclassified.
func (s *Session) Abort() {
	if s.status != StatusRunning {
		return
	}
	s.status = StatusFinished
	if s.current.IsTarget && !s.responded {
		// The presented-but-unclassified target no longer counts as shown.
		s.totalTargets--
		if s.mode.IsVigilance() {
			s.quarters[s.quarterFor(s.current.Index)].Targets--
		}
	}
}

func (s *Session) nextTrial(now time.Time) (Trial, bool) {
	if s.trialIndex >= s.cfg.Trials {
		s.status = StatusFinished
		return Trial{}, false
	}
	s.trialIndex++
	s.trialSeq++
	s.responded = false

	stimuli, isTarget := s.mode.Next(s.rng, s.cfg.TargetProb, s.cfg.Symbols)
	if isTarget {
		s.totalTargets++
		if s.mode.IsVigilance() {
			s.quarters[s.quarterFor(s.trialIndex)].Targets++
		}
	}

	s.current = Trial{
		Seq:       s.trialSeq,
		Index:     s.trialIndex,
		Stimuli:   stimuli,
		IsTarget:  isTarget,
		Duration:  s.trialDuration(),
		Moving:    s.cfg.Moving,
		StartedAt: now,
	}
	return s.current, true
}

// trialDuration is fixed for standard modes; vigilance redraws a uniform
// duration from [min,max] every trial.
func (s *Session) trialDuration() time.Duration {
	if !s.cfg.Variable() {
		return s.cfg.Duration
	}
	spread := s.cfg.MaxDuration - s.cfg.MinDuration
	if spread <= 0 {
		return s.cfg.MinDuration
	}
	return s.cfg.MinDuration + time.Duration(s.rng.Float64()*float64(spread))
}

// quarterFor maps a 1-based trial index to its temporal quartile. The
// last quartile absorbs any rounding remainder.
func (s *Session) quarterFor(index int) int {
	if s.cfg.Trials <= 0 {
		return 0
	}
	q := (index - 1) * NumQuarters / s.cfg.Trials
	if q > NumQuarters-1 {
		q = NumQuarters - 1
	}
	if q < 0 {
		q = 0
	}
	return q
}
