// Package level derives trial configurations from difficulty presets and
// campaign levels.
package level

import (
	"math"
	"time"

	"github.com/verte-zerg/blip/internal/game"
)

// Difficulty names.
const (
	DifficultyEasy   = "easy"
	DifficultyNormal = "normal"
	DifficultyHard   = "hard"
)

// DefaultDifficulty is used when an unknown difficulty is requested.
const DefaultDifficulty = DifficultyNormal

// TrialConfig is the fully-derived configuration for one session. For
// standard modes Duration is fixed and MinDuration/MaxDuration are zero;
// vigilance sessions draw each trial's duration from the range instead.
type TrialConfig struct {
	ModeID      string
	Trials      int
	Duration    time.Duration
	MinDuration time.Duration
	MaxDuration time.Duration
	TargetProb  float64
	PassScore   int
	Symbols     int
	Moving      bool
}

// Variable reports whether trial durations are drawn per trial.
func (c TrialConfig) Variable() bool {
	return c.MinDuration > 0 && c.MaxDuration >= c.MinDuration
}

// Freeplay presets keep sessions short and target-rich.
var freeplayPresets = map[string]TrialConfig{
	DifficultyEasy:   {Trials: 15, Duration: 1100 * time.Millisecond, TargetProb: 0.50, Symbols: 1},
	DifficultyNormal: {Trials: 20, Duration: 900 * time.Millisecond, TargetProb: 0.45, Symbols: 1},
	DifficultyHard:   {Trials: 25, Duration: 700 * time.Millisecond, TargetProb: 0.40, Symbols: 1},
}

// Vigilance presets trade tempo for length: probability falls as the
// trial count rises so the expected target count stays near six.
var vigilancePresets = map[string]TrialConfig{
	DifficultyEasy: {
		Trials:      40,
		MinDuration: 1500 * time.Millisecond,
		MaxDuration: 2500 * time.Millisecond,
		TargetProb:  0.15,
		Symbols:     1,
	},
	DifficultyNormal: {
		Trials:      60,
		MinDuration: 1200 * time.Millisecond,
		MaxDuration: 2200 * time.Millisecond,
		TargetProb:  0.10,
		Symbols:     1,
	},
	DifficultyHard: {
		Trials:      80,
		MinDuration: 1000 * time.Millisecond,
		MaxDuration: 2000 * time.Millisecond,
		TargetProb:  0.075,
		Symbols:     1,
	},
}

// ForDifficulty resolves a freeplay preset for the given mode. Unknown
// difficulties fall back to normal; the bool reports whether the requested
// name was known.
func ForDifficulty(mode game.Mode, difficulty string) (TrialConfig, bool) {
	table := freeplayPresets
	if mode.IsVigilance() {
		table = vigilancePresets
	}
	cfg, ok := table[difficulty]
	if !ok {
		cfg = table[DefaultDifficulty]
	}
	cfg.ModeID = mode.ID()
	if mode.IsMulti() && cfg.Symbols < 2 {
		cfg.Symbols = 4
	}
	return cfg, ok
}

// campaignTrials is fixed across levels; the difficulty curve lives in
// tempo, probability, and mode selection.
const campaignTrials = 20

// ForLevel derives the campaign configuration for a level (>= 1). The
// formulas define the difficulty curve and must not drift.
func ForLevel(lvl int) TrialConfig {
	if lvl < 1 {
		lvl = 1
	}
	cfg := TrialConfig{
		Trials:     campaignTrials,
		Duration:   time.Duration(maxInt(350, 900-(lvl-1)*50)) * time.Millisecond,
		TargetProb: math.Max(0.15, 0.45-float64(lvl-1)*0.02),
		PassScore:  minInt(85, int(math.Round(55+float64(lvl-1)*2))),
		Symbols:    1,
	}
	switch {
	case lvl <= 2:
		cfg.ModeID = game.ModeTapBlue
	case lvl == 3:
		cfg.ModeID = game.ModeTapBlue
		cfg.Moving = true
	case lvl == 4:
		cfg.ModeID = game.ModeBlueCircle
		cfg.Moving = true
	default:
		cfg.ModeID = game.ModeMultiTarget
		cfg.Moving = true
		cfg.Symbols = minInt(6, 2+(lvl-5)/2)
	}
	return cfg
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
