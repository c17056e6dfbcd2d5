package game

// Mode ids.
const (
	ModeTapBlue     = "tap-blue"
	ModeBlueCircle  = "blue-circle"
	ModeMultiTarget = "multi-target"
	ModeFocusLab    = "focus-lab"
)

// Mode is one entry of the game catalog: a target rule plus a stimulus
// generator. Implementations are pure; all randomness comes from the
// injected Rand.
type Mode interface {
	ID() string
	Label() string
	UsesShapes() bool
	IsMulti() bool
	IsVigilance() bool
	// UnlockLevel is the campaign level that unlocks the mode, or 0 when
	// the mode is always available.
	UnlockLevel() int
	IsTarget(c Color, s Shape) bool
	// Next draws the stimuli for one trial. symbols is ignored unless
	// IsMulti. Over many trials the fraction of target trials converges
	// to targetProb.
	Next(rng Rand, targetProb float64, symbols int) ([]Stimulus, bool)
}

type modeInfo struct {
	id          string
	label       string
	usesShapes  bool
	multi       bool
	vigilance   bool
	unlockLevel int
	hidden      bool
}

func (m modeInfo) ID() string        { return m.id }
func (m modeInfo) Label() string     { return m.label }
func (m modeInfo) UsesShapes() bool  { return m.usesShapes }
func (m modeInfo) IsMulti() bool     { return m.multi }
func (m modeInfo) IsVigilance() bool { return m.vigilance }
func (m modeInfo) UnlockLevel() int  { return m.unlockLevel }
func (m modeInfo) isHidden() bool    { return m.hidden }

// tapBlueMode: tap when the symbol is blue. Shape is fixed to a circle
// and ignored by the rule.
type tapBlueMode struct{ modeInfo }

func (tapBlueMode) IsTarget(c Color, _ Shape) bool { return c == ColorBlue }

func (tapBlueMode) Next(rng Rand, targetProb float64, _ int) ([]Stimulus, bool) {
	if rng.Float64() < targetProb {
		return []Stimulus{{Color: ColorBlue, Shape: ShapeCircle}}, true
	}
	return []Stimulus{{Color: otherColor(rng, ColorBlue), Shape: ShapeCircle}}, false
}

// blueCircleMode: tap only when the symbol is both blue and a circle.
// Non-target trials are split roughly evenly across the three ways a
// symbol can be wrong, so near-misses stay common.
type blueCircleMode struct{ modeInfo }

func (blueCircleMode) IsTarget(c Color, s Shape) bool {
	return c == ColorBlue && s == ShapeCircle
}

func (blueCircleMode) Next(rng Rand, targetProb float64, _ int) ([]Stimulus, bool) {
	if rng.Float64() < targetProb {
		return []Stimulus{{Color: ColorBlue, Shape: ShapeCircle}}, true
	}
	var st Stimulus
	switch rng.Intn(3) {
	case 0: // wrong color, right shape
		st = Stimulus{Color: otherColor(rng, ColorBlue), Shape: ShapeCircle}
	case 1: // right color, wrong shape
		st = Stimulus{Color: ColorBlue, Shape: otherShape(rng, ShapeCircle)}
	default: // both wrong
		st = Stimulus{Color: otherColor(rng, ColorBlue), Shape: otherShape(rng, ShapeCircle)}
	}
	return []Stimulus{st}, false
}

// multiTargetMode: several symbols at once; tap when at least one of them
// is the blue circle. On a target trial the target occupies a uniformly
// random slot; every other slot holds a distractor.
type multiTargetMode struct{ modeInfo }

func (multiTargetMode) IsTarget(c Color, s Shape) bool {
	return c == ColorBlue && s == ShapeCircle
}

func (m multiTargetMode) Next(rng Rand, targetProb float64, symbols int) ([]Stimulus, bool) {
	if symbols < 1 {
		symbols = 1
	}
	stimuli := make([]Stimulus, symbols)
	isTarget := rng.Float64() < targetProb
	targetSlot := -1
	if isTarget {
		targetSlot = rng.Intn(symbols)
	}
	for i := range stimuli {
		if i == targetSlot {
			stimuli[i] = Stimulus{Color: ColorBlue, Shape: ShapeCircle}
			continue
		}
		stimuli[i] = distractor(rng)
	}
	return stimuli, isTarget
}

// distractor draws a non-target symbol, biased so near-misses (right
// color or right shape) appear at least as often as fully-wrong symbols.
func distractor(rng Rand) Stimulus {
	switch rng.Intn(3) {
	case 0: // same color, different shape
		return Stimulus{Color: ColorBlue, Shape: otherShape(rng, ShapeCircle)}
	case 1: // same shape, different color
		return Stimulus{Color: otherColor(rng, ColorBlue), Shape: ShapeCircle}
	default:
		return Stimulus{Color: otherColor(rng, ColorBlue), Shape: otherShape(rng, ShapeCircle)}
	}
}

// focusLabMode: the tap-blue rule at a variable tempo with rare targets,
// used for sustained-attention sessions. Hidden from the mode selector.
type focusLabMode struct{ tapBlueMode }

var registry = []Mode{
	tapBlueMode{modeInfo{
		id:    ModeTapBlue,
		label: "Tap on Blue",
	}},
	blueCircleMode{modeInfo{
		id:          ModeBlueCircle,
		label:       "Blue Circle",
		usesShapes:  true,
		unlockLevel: 4,
	}},
	multiTargetMode{modeInfo{
		id:          ModeMultiTarget,
		label:       "Find the Blue Circle",
		usesShapes:  true,
		multi:       true,
		unlockLevel: 5,
	}},
	focusLabMode{tapBlueMode{modeInfo{
		id:        ModeFocusLab,
		label:     "Focus Lab",
		vigilance: true,
		hidden:    true,
	}}},
}

// Lookup returns the mode for id.
func Lookup(id string) (Mode, bool) {
	for _, m := range registry {
		if m.ID() == id {
			return m, true
		}
	}
	return nil, false
}

// Default returns the baseline mode used when an unknown id is requested.
func Default() Mode {
	m, _ := Lookup(ModeTapBlue)
	return m
}

// Selectable lists the modes shown in the standard mode selector, in
// catalog order. Hidden modes (focus-lab) are excluded.
func Selectable() []Mode {
	out := make([]Mode, 0, len(registry))
	for _, m := range registry {
		if h, ok := m.(interface{ isHidden() bool }); ok && h.isHidden() {
			continue
		}
		out = append(out, m)
	}
	return out
}
