// Package campaign holds the persistent level/lives progression layered on
// repeated sessions.
package campaign

import (
	"sort"

	"github.com/verte-zerg/blip/internal/game"
)

// MaxLives is the number of failures a run survives.
const MaxLives = 3

// Unlockable feature ids (mode ids double as unlock ids).
const (
	UnlockMoving = "moving"
)

// unlockTable maps a reached level to the unlock it grants. Grants are
// idempotent and never revoked.
var unlockTable = map[int]string{
	1: game.ModeTapBlue,
	3: UnlockMoving,
	4: game.ModeBlueCircle,
	5: game.ModeMultiTarget,
}

// State is the persistent campaign progression.
type State struct {
	Level        int
	HighestLevel int
	Lives        int
	Streak       int
	GamesPlayed  int
	Unlocks      map[string]bool
}

// NewState returns a fresh campaign at level 1 with full lives and the
// starting mode unlocked.
func NewState() State {
	return State{
		Level:        1,
		HighestLevel: 1,
		Lives:        MaxLives,
		Unlocks:      map[string]bool{game.ModeTapBlue: true},
	}
}

// Unlocked reports whether the given mode or feature id has been granted.
// Ids with no unlock level are always available.
func (s State) Unlocked(id string) bool {
	if mode, ok := game.Lookup(id); ok && mode.UnlockLevel() == 0 {
		return true
	}
	return s.Unlocks[id]
}

// UnlockedIDs returns the granted ids in stable order.
func (s State) UnlockedIDs() []string {
	ids := make([]string, 0, len(s.Unlocks))
	for id := range s.Unlocks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Result describes what a single Apply changed, for feedback rendering.
type Result struct {
	Passed     bool
	NewUnlock  string // id granted this transition, if any
	RunEnded   bool   // lives hit zero and the run reset
	LevelAfter int
}

// Apply advances the campaign after one session. Pass means the score met
// the level's pass threshold: the level and streak rise and the new
// level's unlock is granted if it wasn't already. Fail costs a life and
// the streak; losing the last life ends the run, resetting level and
// lives while the highest level and unlocks persist.
func Apply(s State, sessionScore, passScore int) (State, Result) {
	if s.Unlocks == nil {
		s.Unlocks = map[string]bool{}
	} else {
		unlocks := make(map[string]bool, len(s.Unlocks))
		for id, v := range s.Unlocks {
			unlocks[id] = v
		}
		s.Unlocks = unlocks
	}

	res := Result{}
	s.GamesPlayed++
	if sessionScore >= passScore {
		res.Passed = true
		s.Streak++
		s.Level++
		if s.Level > s.HighestLevel {
			s.HighestLevel = s.Level
		}
		if id, ok := unlockTable[s.Level]; ok && !s.Unlocks[id] {
			s.Unlocks[id] = true
			res.NewUnlock = id
		}
	} else {
		s.Streak = 0
		s.Lives--
		if s.Lives <= 0 {
			res.RunEnded = true
			s.Level = 1
			s.Lives = MaxLives
		}
	}
	res.LevelAfter = s.Level
	return s, res
}
