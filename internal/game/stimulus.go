// Package game defines the mode catalog and stimulus generation.
package game

// Color identifies a stimulus color.
type Color string

// Stimulus colors.
const (
	ColorBlue   Color = "blue"
	ColorRed    Color = "red"
	ColorGreen  Color = "green"
	ColorYellow Color = "yellow"
)

// Colors lists every stimulus color in presentation order.
var Colors = []Color{ColorBlue, ColorRed, ColorGreen, ColorYellow}

// Shape identifies a stimulus shape.
type Shape string

// Stimulus shapes.
const (
	ShapeCircle   Shape = "circle"
	ShapeSquare   Shape = "square"
	ShapeTriangle Shape = "triangle"
	ShapeDiamond  Shape = "diamond"
)

// Shapes lists every stimulus shape in presentation order.
var Shapes = []Shape{ShapeCircle, ShapeSquare, ShapeTriangle, ShapeDiamond}

// Stimulus is one colored symbol shown during a trial.
type Stimulus struct {
	Color Color
	Shape Shape
}

// Rand is the random source injected into generators. *math/rand.Rand
// satisfies it; tests supply scripted implementations.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

func otherColor(rng Rand, not Color) Color {
	for {
		c := Colors[rng.Intn(len(Colors))]
		if c != not {
			return c
		}
	}
}

func otherShape(rng Rand, not Shape) Shape {
	for {
		s := Shapes[rng.Intn(len(Shapes))]
		if s != not {
			return s
		}
	}
}
