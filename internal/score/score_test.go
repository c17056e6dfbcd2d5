package score

import "testing"

func TestSessionScore(t *testing.T) {
	cases := []struct {
		name string
		c    Counters
		want int
	}{
		{"perfect", Counters{Hits: 9, TotalTargets: 9, Trials: 20}, 100},
		{"no targets no false taps", Counters{Trials: 20}, 100},
		{"no targets one false tap", Counters{FalseTaps: 1, Trials: 20}, 80},
		{"no targets many false taps", Counters{FalseTaps: 8, Trials: 20}, 0},
		{"misses cost two points", Counters{Hits: 8, Misses: 2, TotalTargets: 10, Trials: 20}, 76},
		{"false taps scale by non-targets", Counters{Hits: 10, FalseTaps: 5, TotalTargets: 10, Trials: 20}, 75},
		{"all targets false tap fallback", Counters{Hits: 9, Misses: 1, FalseTaps: 1, TotalTargets: 10, Trials: 10}, 78},
		{"floor at zero", Counters{Hits: 0, Misses: 10, FalseTaps: 10, TotalTargets: 10, Trials: 20}, 0},
	}
	for _, tc := range cases {
		if got := Session(tc.c); got != tc.want {
			t.Fatalf("%s: Session(%+v) = %d, want %d", tc.name, tc.c, got, tc.want)
		}
	}
}

func TestSessionScoreInRange(t *testing.T) {
	for hits := 0; hits <= 10; hits++ {
		for falseTaps := 0; falseTaps <= 15; falseTaps++ {
			c := Counters{
				Hits:         hits,
				Misses:       10 - hits,
				FalseTaps:    falseTaps,
				TotalTargets: 10,
				Trials:       25,
			}
			got := Session(c)
			if got < 0 || got > 100 {
				t.Fatalf("Session(%+v) = %d out of [0,100]", c, got)
			}
		}
	}
}

func TestQuarterScore(t *testing.T) {
	cases := []struct {
		name string
		q    QuarterCounters
		want int
	}{
		{"no targets clean", QuarterCounters{}, 100},
		{"no targets one false tap", QuarterCounters{FalseTaps: 1}, 80},
		{"no targets six false taps", QuarterCounters{FalseTaps: 6}, 0},
		{"half hits", QuarterCounters{Hits: 1, Misses: 1, Targets: 2}, 50},
		{"all hits", QuarterCounters{Hits: 3, Targets: 3}, 100},
		{"rounding", QuarterCounters{Hits: 2, Misses: 1, Targets: 3}, 67},
	}
	for _, tc := range cases {
		if got := Quarter(tc.q); got != tc.want {
			t.Fatalf("%s: Quarter(%+v) = %d, want %d", tc.name, tc.q, got, tc.want)
		}
	}
}

func TestDrift(t *testing.T) {
	if got := Drift([]int{100, 90, 80, 70}); got != 20 {
		t.Fatalf("Drift = %v, want 20", got)
	}
	if got := Drift([]int{50, 50, 90, 90}); got != -40 {
		t.Fatalf("Drift = %v, want -40", got)
	}
	if got := Drift([]int{100}); got != 0 {
		t.Fatalf("short input Drift = %v, want 0", got)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name   string
		scores []int
		want   Band
	}{
		{"strong fade", []int{100, 95, 60, 60}, BandStrongFade},
		{"slight fade", []int{90, 90, 75, 75}, BandSlightFade},
		{"strong improvement", []int{50, 50, 90, 90}, BandStrongImprovement},
		{"mild improvement", []int{70, 70, 85, 85}, BandMildImprovement},
		{"rock steady", []int{95, 92, 90, 94}, BandRockSteady},
		{"steady", []int{75, 80, 72, 78}, BandSteady},
		{"variable", []int{55, 60, 50, 58}, BandVariable},
		{"low", []int{40, 35, 42, 38}, BandLow},
		{"boundary drift exactly 10 is neutral", []int{90, 90, 80, 80}, BandSteady},
	}
	for _, tc := range cases {
		if got := Classify(tc.scores); got != tc.want {
			t.Fatalf("%s: Classify(%v) = %s, want %s", tc.name, tc.scores, got, tc.want)
		}
	}
}

func TestBandLabelsDistinct(t *testing.T) {
	bands := []Band{
		BandStrongFade, BandSlightFade, BandStrongImprovement, BandMildImprovement,
		BandRockSteady, BandSteady, BandVariable, BandLow,
	}
	seen := map[string]bool{}
	for _, b := range bands {
		label := b.Label()
		if label == "" {
			t.Fatalf("band %s has an empty label", b)
		}
		if seen[label] {
			t.Fatalf("duplicate label %q", label)
		}
		seen[label] = true
	}
}
