// Package tui provides the Bubble Tea game interface.
package tui

import (
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/blip/internal/game"
)

// Field dimensions for the stimulus area, in character cells.
const (
	fieldCols = 36
	fieldRows = 7
)

type placedSymbol struct {
	stimulus game.Stimulus
	col      int
	row      int
}

// centeredPositions lays out n symbols on the middle row, evenly spaced.
func centeredPositions(n int) []placedSymbol {
	if n <= 0 {
		return nil
	}
	out := make([]placedSymbol, n)
	spacing := fieldCols / (n + 1)
	for i := range out {
		out[i].col = spacing * (i + 1)
		out[i].row = fieldRows / 2
	}
	return out
}

// scatterPositions draws n distinct field cells for moving stimuli. Cells
// keep a one-column gap so adjacent wide symbols cannot collide.
func scatterPositions(rng game.Rand, n int) []placedSymbol {
	if n <= 0 {
		return nil
	}
	cols := fieldCols / 3
	taken := map[int]bool{}
	out := make([]placedSymbol, n)
	for i := range out {
		var cell int
		for {
			cell = rng.Intn(cols * fieldRows)
			if !taken[cell] {
				break
			}
		}
		taken[cell] = true
		out[i].col = (cell % cols) * 3
		out[i].row = cell / cols
	}
	return out
}

type styledAt struct {
	col      int
	rendered string
	width    int
}

// renderField draws the stimulus area as fieldRows lines, placing each
// styled symbol at its cell. Symbol widths are measured with runewidth so
// columns stay aligned around double-width glyphs.
func renderField(placed []placedSymbol) string {
	perRow := make(map[int][]styledAt)
	for _, p := range placed {
		if p.row < 0 || p.row >= fieldRows || p.col < 0 || p.col >= fieldCols {
			continue
		}
		r := symbolRune(p.stimulus.Shape)
		perRow[p.row] = append(perRow[p.row], styledAt{
			col:      p.col,
			rendered: colorStyle(p.stimulus.Color).Render(string(r)),
			width:    runewidth.RuneWidth(r),
		})
	}

	var b strings.Builder
	for row := 0; row < fieldRows; row++ {
		symbols := perRow[row]
		sort.Slice(symbols, func(i, j int) bool { return symbols[i].col < symbols[j].col })
		col := 0
		for _, s := range symbols {
			if s.col > col {
				b.WriteString(strings.Repeat(" ", s.col-col))
				col = s.col
			}
			b.WriteString(s.rendered)
			col += s.width
		}
		if col < fieldCols {
			b.WriteString(strings.Repeat(" ", fieldCols-col))
		}
		if row < fieldRows-1 {
			b.WriteRune('\n')
		}
	}
	return b.String()
}

func symbolRune(s game.Shape) rune {
	switch s {
	case game.ShapeCircle:
		return '●'
	case game.ShapeSquare:
		return '■'
	case game.ShapeTriangle:
		return '▲'
	case game.ShapeDiamond:
		return '◆'
	}
	return '?'
}
