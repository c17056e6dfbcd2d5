package campaign

import (
	"testing"

	"github.com/verte-zerg/blip/internal/game"
)

func TestApplyTransitionTable(t *testing.T) {
	cases := []struct {
		name        string
		state       State
		score       int
		passScore   int
		wantLevel   int
		wantLives   int
		wantStreak  int
		wantRunEnds bool
	}{
		{
			name:       "pass advances level and streak",
			state:      State{Level: 1, HighestLevel: 1, Lives: 3},
			score:      85,
			passScore:  55,
			wantLevel:  2,
			wantLives:  3,
			wantStreak: 1,
		},
		{
			name:       "fail costs a life and the streak",
			state:      State{Level: 4, HighestLevel: 4, Lives: 3, Streak: 3},
			score:      40,
			passScore:  61,
			wantLevel:  4,
			wantLives:  2,
			wantStreak: 0,
		},
		{
			name:        "last life ends the run",
			state:       State{Level: 5, HighestLevel: 5, Lives: 1, Streak: 2},
			score:       40,
			passScore:   65,
			wantLevel:   1,
			wantLives:   MaxLives,
			wantStreak:  0,
			wantRunEnds: true,
		},
		{
			name:       "exact pass score passes",
			state:      State{Level: 2, HighestLevel: 2, Lives: 2},
			score:      57,
			passScore:  57,
			wantLevel:  3,
			wantLives:  2,
			wantStreak: 1,
		},
	}
	for _, tc := range cases {
		before := tc.state.GamesPlayed
		after, res := Apply(tc.state, tc.score, tc.passScore)
		if after.Level != tc.wantLevel {
			t.Fatalf("%s: level = %d, want %d", tc.name, after.Level, tc.wantLevel)
		}
		if after.Lives != tc.wantLives {
			t.Fatalf("%s: lives = %d, want %d", tc.name, after.Lives, tc.wantLives)
		}
		if after.Streak != tc.wantStreak {
			t.Fatalf("%s: streak = %d, want %d", tc.name, after.Streak, tc.wantStreak)
		}
		if after.GamesPlayed != before+1 {
			t.Fatalf("%s: games played = %d, want %d", tc.name, after.GamesPlayed, before+1)
		}
		if res.RunEnded != tc.wantRunEnds {
			t.Fatalf("%s: run ended = %v, want %v", tc.name, res.RunEnded, tc.wantRunEnds)
		}
		if res.LevelAfter != after.Level {
			t.Fatalf("%s: result level %d != state level %d", tc.name, res.LevelAfter, after.Level)
		}
	}
}

func TestHighestLevelPersistsThroughReset(t *testing.T) {
	s := State{Level: 6, HighestLevel: 6, Lives: 1, Unlocks: map[string]bool{game.ModeTapBlue: true}}
	s, res := Apply(s, 10, 65)
	if !res.RunEnded {
		t.Fatalf("expected the run to end")
	}
	if s.HighestLevel != 6 {
		t.Fatalf("highest level = %d, want 6", s.HighestLevel)
	}
	if s.Level != 1 || s.Lives != MaxLives {
		t.Fatalf("reset state = level %d lives %d, want 1/%d", s.Level, s.Lives, MaxLives)
	}
}

func TestUnlocksGrantedOnLevelUp(t *testing.T) {
	s := NewState()
	s.Level = 2
	s, res := Apply(s, 90, 57) // reaching level 3 unlocks moving stimuli
	if res.NewUnlock != UnlockMoving {
		t.Fatalf("new unlock = %q, want %q", res.NewUnlock, UnlockMoving)
	}
	if !s.Unlocked(UnlockMoving) {
		t.Fatalf("moving unlock not recorded")
	}

	s.Level = 4
	s, res = Apply(s, 90, 61)
	if res.NewUnlock != game.ModeMultiTarget {
		t.Fatalf("new unlock = %q, want %q", res.NewUnlock, game.ModeMultiTarget)
	}
}

func TestUnlockIdempotence(t *testing.T) {
	// Reach level 3, lose the run, then reach level 3 again: the moving
	// unlock is granted exactly once.
	s := NewState()
	s.Level = 2
	s, res := Apply(s, 90, 57)
	if res.NewUnlock != UnlockMoving {
		t.Fatalf("first grant missing")
	}
	s.Lives = 1
	s, res = Apply(s, 0, 59)
	if !res.RunEnded {
		t.Fatalf("expected run reset")
	}
	if !s.Unlocked(UnlockMoving) {
		t.Fatalf("unlock revoked by run reset")
	}
	s.Level = 2
	s, res = Apply(s, 90, 57)
	if res.NewUnlock != "" {
		t.Fatalf("unlock re-granted: %q", res.NewUnlock)
	}
	if !s.Unlocked(UnlockMoving) {
		t.Fatalf("unlock lost")
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	s := NewState()
	s.Level = 2
	before := len(s.Unlocks)
	Apply(s, 90, 57)
	if len(s.Unlocks) != before {
		t.Fatalf("Apply mutated the input unlock set")
	}
}

func TestAlwaysAvailableModes(t *testing.T) {
	s := NewState()
	if !s.Unlocked(game.ModeTapBlue) {
		t.Fatalf("tap-blue must start unlocked")
	}
	if !s.Unlocked(game.ModeFocusLab) {
		t.Fatalf("focus-lab has no unlock level and must be available")
	}
	if s.Unlocked(game.ModeMultiTarget) {
		t.Fatalf("multi-target must start locked")
	}
}
