package talentgraph

import (
	"fmt"

	"github.com/KirkDiggler/talent-api/internal/entities/talents"
)

// Grid bounds of a talent tree.
const (
	MaxTiers   = 11
	MaxColumns = 4
)

// ToPosition converts a 0-based tier and column into a grid code. Values
// outside the grid are clamped onto its edge.
func ToPosition(tier, col int) talents.Position {
	tier = clamp(tier, 0, MaxTiers-1)
	col = clamp(col+1, 1, MaxColumns)
	return talents.Position(fmt.Sprintf("%c%d", 'a'+rune(tier), col))
}

func clamp(v, lo, hi int) int {
	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	}
	return v
}

// Direction picks the arrow artwork linking from to to. There is no left
// diagonal artwork; such links are drawn straight down.
func Direction(from, to talents.Position) talents.ArrowDir {
	fromRow, fromCol, ok1 := from.Coords()
	toRow, toCol, ok2 := to.Coords()
	if !ok1 || !ok2 {
		return talents.ArrowDown
	}

	dRow := toRow - fromRow
	dCol := toCol - fromCol
	switch {
	case dCol == 0:
		return talents.ArrowDown
	case dRow == 0 && dCol > 0:
		return talents.ArrowRight
	case dRow == 0:
		return talents.ArrowLeft
	case dCol > 0 && dRow >= 2:
		return talents.ArrowRightDownDown
	case dCol > 0:
		return talents.ArrowRightDown
	default:
		return talents.ArrowDown
	}
}

// NewArrow builds the arrow drawn from a prerequisite to its dependent.
func NewArrow(from, to talents.Position) talents.Arrow {
	return talents.Arrow{Dir: Direction(from, to), From: from, To: to}
}

// GridArea is the CSS grid-area spanning both ends of an arrow, in
// "rowStart / colStart / rowEnd / colEnd" form with exclusive ends.
func GridArea(a talents.Arrow) string {
	fromRow, fromCol, ok1 := a.From.Coords()
	toRow, toCol, ok2 := a.To.Coords()
	if !ok1 || !ok2 {
		return ""
	}
	return fmt.Sprintf("%d / %d / %d / %d",
		min(fromRow, toRow), min(fromCol, toCol),
		max(fromRow, toRow)+1, max(fromCol, toCol)+1,
	)
}
