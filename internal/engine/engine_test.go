package engine

import (
	"math/rand"
	"reflect"
	"testing"
	"time"

	"github.com/verte-zerg/blip/internal/game"
	"github.com/verte-zerg/blip/internal/level"
)

// scriptRand replays fixed sequences so trials are fully reproducible.
type scriptRand struct {
	floats []float64
	ints   []int
}

func (r *scriptRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0.99
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func (r *scriptRand) Intn(n int) int {
	if len(r.ints) == 0 {
		return n - 1
	}
	v := r.ints[0] % n
	r.ints = r.ints[1:]
	return v
}

func tapBlueConfig(trials int) level.TrialConfig {
	return level.TrialConfig{
		ModeID:     game.ModeTapBlue,
		Trials:     trials,
		Duration:   900 * time.Millisecond,
		TargetProb: 0.5,
		Symbols:    1,
	}
}

func TestSessionClassification(t *testing.T) {
	mode, _ := game.Lookup(game.ModeTapBlue)
	// Coin flips: target, non-target, target, non-target.
	rng := &scriptRand{floats: []float64{0.1, 0.9, 0.1, 0.9}, ints: []int{1, 1}}
	s := New(mode, tapBlueConfig(4), rng)

	base := time.Unix(100, 0)
	trial, ok := s.Start(base)
	if !ok || trial.Index != 1 || !trial.IsTarget {
		t.Fatalf("trial 1 = %+v, ok=%v; want target trial", trial, ok)
	}
	if s.Status() != StatusRunning {
		t.Fatalf("status = %v, want running", s.Status())
	}

	outcome, consumed := s.Tap(base.Add(200 * time.Millisecond))
	if !consumed || outcome != OutcomeHit {
		t.Fatalf("first tap = (%v, %v), want consumed hit", outcome, consumed)
	}
	if _, consumed := s.Tap(base.Add(300 * time.Millisecond)); consumed {
		t.Fatalf("second tap in the same trial must be ignored")
	}

	trial, ok = s.ExpireTrial(trial.Seq, base.Add(time.Second))
	if !ok || trial.Index != 2 || trial.IsTarget {
		t.Fatalf("trial 2 = %+v, ok=%v; want non-target trial", trial, ok)
	}
	outcome, consumed = s.Tap(base.Add(1200 * time.Millisecond))
	if !consumed || outcome != OutcomeFalseTap {
		t.Fatalf("tap on non-target = (%v, %v), want false tap", outcome, consumed)
	}

	// Trial 3 is a target left unanswered: a miss on expiry.
	trial, ok = s.ExpireTrial(trial.Seq, base.Add(2*time.Second))
	if !ok || !trial.IsTarget {
		t.Fatalf("trial 3 = %+v, ok=%v; want target trial", trial, ok)
	}
	trial, ok = s.ExpireTrial(trial.Seq, base.Add(3*time.Second))
	if !ok || trial.IsTarget {
		t.Fatalf("trial 4 = %+v, ok=%v; want non-target trial", trial, ok)
	}
	if _, ok := s.ExpireTrial(trial.Seq, base.Add(4*time.Second)); ok {
		t.Fatalf("expected session to finish after trial 4")
	}
	if s.Status() != StatusFinished {
		t.Fatalf("status = %v, want finished", s.Status())
	}

	hits, misses, falseTaps, totalTargets := s.Counters()
	if hits != 1 || misses != 1 || falseTaps != 1 || totalTargets != 2 {
		t.Fatalf("counters = %d/%d/%d/%d, want 1/1/1/2", hits, misses, falseTaps, totalTargets)
	}
	if hits+misses != totalTargets {
		t.Fatalf("hits+misses (%d) != totalTargets (%d)", hits+misses, totalTargets)
	}
	rts := s.ReactionTimes()
	if len(rts) != 1 || rts[0] != 200*time.Millisecond {
		t.Fatalf("reaction times = %v, want [200ms]", rts)
	}
}

func TestStaleExpiryIsNoOp(t *testing.T) {
	mode, _ := game.Lookup(game.ModeTapBlue)
	rng := rand.New(rand.NewSource(11))
	s := New(mode, tapBlueConfig(5), rng)

	base := time.Unix(0, 0)
	trial, _ := s.Start(base)
	if _, ok := s.ExpireTrial(trial.Seq+5, base.Add(time.Second)); ok {
		t.Fatalf("expiry with a future seq must be ignored")
	}
	next, ok := s.ExpireTrial(trial.Seq, base.Add(time.Second))
	if !ok {
		t.Fatalf("expected trial 2")
	}
	// The old countdown firing again must not advance past trial 2.
	if _, ok := s.ExpireTrial(trial.Seq, base.Add(2*time.Second)); ok {
		t.Fatalf("repeated expiry of a completed trial must be ignored")
	}
	if s.TrialIndex() != next.Index {
		t.Fatalf("trial index moved to %d after stale expiry", s.TrialIndex())
	}
}

func TestTapOutsideRunningIgnored(t *testing.T) {
	mode, _ := game.Lookup(game.ModeTapBlue)
	s := New(mode, tapBlueConfig(1), rand.New(rand.NewSource(1)))
	if _, ok := s.Tap(time.Now()); ok {
		t.Fatalf("tap before start must be ignored")
	}
	trial, _ := s.Start(time.Unix(0, 0))
	s.ExpireTrial(trial.Seq, time.Unix(1, 0))
	if _, ok := s.Tap(time.Unix(2, 0)); ok {
		t.Fatalf("tap after finish must be ignored")
	}
}

func TestVigilanceQuarterBucketing(t *testing.T) {
	mode, _ := game.Lookup(game.ModeFocusLab)
	cfg := level.TrialConfig{
		ModeID:      game.ModeFocusLab,
		Trials:      40,
		MinDuration: 1000 * time.Millisecond,
		MaxDuration: 2000 * time.Millisecond,
		TargetProb:  1.0, // every trial a target, for exact counts
		Symbols:     1,
	}
	rng := rand.New(rand.NewSource(3))
	s := New(mode, cfg, rng)

	now := time.Unix(0, 0)
	trial, ok := s.Start(now)
	for ok {
		if trial.Duration < cfg.MinDuration || trial.Duration > cfg.MaxDuration {
			t.Fatalf("trial %d: duration %v outside [%v,%v]", trial.Index, trial.Duration, cfg.MinDuration, cfg.MaxDuration)
		}
		if trial.Index <= 20 {
			s.Tap(now.Add(150 * time.Millisecond))
		}
		now = now.Add(trial.Duration)
		trial, ok = s.ExpireTrial(trial.Seq, now)
	}

	quarters := s.Quarters()
	for q, counters := range quarters {
		if counters.Targets != 10 {
			t.Fatalf("quarter %d: targets = %d, want 10", q, counters.Targets)
		}
	}
	if quarters[0].Hits != 10 || quarters[1].Hits != 10 {
		t.Fatalf("first-half hits = %d/%d, want 10/10", quarters[0].Hits, quarters[1].Hits)
	}
	if quarters[2].Misses != 10 || quarters[3].Misses != 10 {
		t.Fatalf("second-half misses = %d/%d, want 10/10", quarters[2].Misses, quarters[3].Misses)
	}
	if len(quarters[0].ReactionTimes) != 10 || len(quarters[3].ReactionTimes) != 0 {
		t.Fatalf("reaction times landed in the wrong quarters")
	}

	hits, misses, _, totalTargets := s.Counters()
	if hits+misses != totalTargets || totalTargets != 40 {
		t.Fatalf("counters %d+%d != %d", hits, misses, totalTargets)
	}
}

func TestDeterministicReplay(t *testing.T) {
	mode, _ := game.Lookup(game.ModeMultiTarget)
	cfg := level.TrialConfig{
		ModeID:     game.ModeMultiTarget,
		Trials:     30,
		Duration:   600 * time.Millisecond,
		TargetProb: 0.4,
		Symbols:    4,
	}

	run := func() ([][]game.Stimulus, []bool) {
		s := New(mode, cfg, rand.New(rand.NewSource(42)))
		var stimuli [][]game.Stimulus
		var targets []bool
		now := time.Unix(0, 0)
		trial, ok := s.Start(now)
		for ok {
			stimuli = append(stimuli, trial.Stimuli)
			targets = append(targets, trial.IsTarget)
			now = now.Add(trial.Duration)
			trial, ok = s.ExpireTrial(trial.Seq, now)
		}
		return stimuli, targets
	}

	s1, t1 := run()
	s2, t2 := run()
	if !reflect.DeepEqual(s1, s2) || !reflect.DeepEqual(t1, t2) {
		t.Fatalf("identical seeds produced different trial sequences")
	}
}

func TestAbortLeavesCountersStanding(t *testing.T) {
	mode, _ := game.Lookup(game.ModeTapBlue)
	// target, target, target...
	rng := &scriptRand{floats: []float64{0.1, 0.1, 0.1, 0.1}}
	s := New(mode, tapBlueConfig(4), rng)

	base := time.Unix(0, 0)
	trial, _ := s.Start(base)
	s.Tap(base.Add(100 * time.Millisecond))
	if _, ok := s.ExpireTrial(trial.Seq, base.Add(time.Second)); !ok {
		t.Fatalf("expected trial 2")
	}

	// Abort mid-trial: the unclassified in-flight target is not counted.
	s.Abort()
	if s.Status() != StatusFinished {
		t.Fatalf("abort must finish the session")
	}
	hits, misses, falseTaps, totalTargets := s.Counters()
	if hits != 1 || misses != 0 || falseTaps != 0 || totalTargets != 1 {
		t.Fatalf("counters after abort = %d/%d/%d/%d, want 1/0/0/1", hits, misses, falseTaps, totalTargets)
	}
	if _, ok := s.Tap(base.Add(2 * time.Second)); ok {
		t.Fatalf("tap after abort must be ignored")
	}
	s.Abort() // repeated abort is a no-op
}

func TestTotalTargetsNeverExceedsTrials(t *testing.T) {
	mode, _ := game.Lookup(game.ModeBlueCircle)
	cfg := level.TrialConfig{
		ModeID:     game.ModeBlueCircle,
		Trials:     50,
		Duration:   500 * time.Millisecond,
		TargetProb: 0.45,
		Symbols:    1,
	}
	s := New(mode, cfg, rand.New(rand.NewSource(9)))
	now := time.Unix(0, 0)
	trial, ok := s.Start(now)
	for ok {
		now = now.Add(trial.Duration)
		trial, ok = s.ExpireTrial(trial.Seq, now)
	}
	hits, misses, _, totalTargets := s.Counters()
	if totalTargets > cfg.Trials {
		t.Fatalf("totalTargets %d exceeds trial count %d", totalTargets, cfg.Trials)
	}
	if hits+misses != totalTargets {
		t.Fatalf("hits+misses (%d) != totalTargets (%d)", hits+misses, totalTargets)
	}
}
