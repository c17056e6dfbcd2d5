package tui

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/verte-zerg/blip/internal/game"
)

func TestCenteredPositions(t *testing.T) {
	got := centeredPositions(3)
	if len(got) != 3 {
		t.Fatalf("expected 3 positions, got %d", len(got))
	}
	for i, p := range got {
		if p.row != fieldRows/2 {
			t.Fatalf("position %d on row %d, want middle row %d", i, p.row, fieldRows/2)
		}
		if p.col < 0 || p.col >= fieldCols {
			t.Fatalf("position %d column %d out of field", i, p.col)
		}
	}
	if got[0].col >= got[1].col || got[1].col >= got[2].col {
		t.Fatalf("columns must increase left to right: %+v", got)
	}
	spacing1 := got[1].col - got[0].col
	spacing2 := got[2].col - got[1].col
	if spacing1 != spacing2 {
		t.Fatalf("uneven spacing: %d vs %d", spacing1, spacing2)
	}

	if centeredPositions(0) != nil {
		t.Fatalf("zero symbols must yield no positions")
	}
}

func TestScatterPositionsDistinct(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 50; round++ {
		got := scatterPositions(rng, 6)
		if len(got) != 6 {
			t.Fatalf("expected 6 positions, got %d", len(got))
		}
		seen := map[[2]int]bool{}
		for _, p := range got {
			if p.col < 0 || p.col >= fieldCols || p.row < 0 || p.row >= fieldRows {
				t.Fatalf("position out of field: %+v", p)
			}
			cell := [2]int{p.col, p.row}
			if seen[cell] {
				t.Fatalf("duplicate cell %v in %+v", cell, got)
			}
			seen[cell] = true
		}
	}
}

func TestRenderFieldShape(t *testing.T) {
	placed := centeredPositions(2)
	placed[0].stimulus = game.Stimulus{Color: game.ColorBlue, Shape: game.ShapeCircle}
	placed[1].stimulus = game.Stimulus{Color: game.ColorRed, Shape: game.ShapeSquare}

	out := renderField(placed)
	lines := strings.Split(out, "\n")
	if len(lines) != fieldRows {
		t.Fatalf("expected %d rows, got %d", fieldRows, len(lines))
	}
	if !strings.Contains(out, string(symbolRune(game.ShapeCircle))) {
		t.Fatalf("missing circle glyph:\n%s", out)
	}
	if !strings.Contains(out, string(symbolRune(game.ShapeSquare))) {
		t.Fatalf("missing square glyph:\n%s", out)
	}
	for row, line := range lines {
		if row == fieldRows/2 {
			continue
		}
		if strings.TrimSpace(stripANSI(line)) != "" {
			t.Fatalf("row %d should be blank: %q", row, line)
		}
	}
}

func TestRenderFieldIgnoresOutOfBounds(t *testing.T) {
	placed := []placedSymbol{
		{stimulus: game.Stimulus{Color: game.ColorBlue, Shape: game.ShapeCircle}, col: -1, row: 0},
		{stimulus: game.Stimulus{Color: game.ColorBlue, Shape: game.ShapeCircle}, col: 0, row: fieldRows},
	}
	out := renderField(placed)
	if strings.Contains(out, string(symbolRune(game.ShapeCircle))) {
		t.Fatalf("out-of-bounds symbols must not render:\n%s", out)
	}
}

// stripANSI removes escape sequences so tests can assert on layout.
func stripANSI(s string) string {
	var b strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case inEscape:
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
		case r == '\x1b':
			inEscape = true
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
