package tooltip

import (
	"fmt"
	"math"

	"github.com/KirkDiggler/talent-api/internal/pkg/rowfield"
)

// MaxEffects is the number of effect slots on a spell row.
const MaxEffects = 3

// Effect is the rolled value range of one spell effect.
type Effect struct {
	Min      float64
	Max      float64
	DieSides float64
}

// EffectFor computes the value range of effect idx (1..3). Base points are
// stored one below the lowest roll; die sides widen the range upward.
func EffectFor(spell rowfield.Row, idx int) Effect {
	base := rowfield.Float(spell, 0, rowfield.Indexed("EffectBasePoints", idx)...)
	die := rowfield.Float(spell, 0, rowfield.Indexed("EffectDieSides", idx)...)

	e := Effect{Min: base + 1, Max: base + 1}
	if die > 0 {
		e.Max = base + die
		e.DieSides = die
	}
	return e
}

// Random reports whether the effect rolls a range of values.
func (e Effect) Random() bool {
	return e.DieSides > 0
}

// Display is the single magnitude shown for the effect: the upper roll for
// random effects, the fixed value otherwise.
func (e Effect) Display() float64 {
	if e.Random() {
		return math.Abs(e.Max)
	}
	return math.Abs(e.Min)
}

// Text is the tooltip form: one number, or "min to max" for a real range.
func (e Effect) Text() string {
	if e.Min == e.Max {
		return FormatNumber(math.Abs(e.Min))
	}
	return fmt.Sprintf("%s to %s", FormatNumber(math.Abs(e.Min)), FormatNumber(math.Abs(e.Max)))
}
