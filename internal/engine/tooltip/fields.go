package tooltip

import (
	"math"
	"regexp"
	"strings"

	"github.com/KirkDiggler/talent-api/internal/pkg/rowfield"
)

var (
	durationIndexKeys = []string{"DurationIndex", "DurationIndex_1", "durationIndex"}
	durationRowKeys   = []string{"BaseDuration", "Duration", "Duration_1", "Duration1", "DurationBase", "duration"}
	directDurationKey = []string{"Duration", "duration"}

	radiusRowKeys = []string{"Radius", "Radius_1", "Radius1", "RadiusBase", "radius"}

	descVarIDKeys = []string{
		"SpellDescriptionVariablesID",
		"SpellDescriptionVariablesId",
		"DescriptionVariablesID",
		"DescriptionVariablesId",
		"DescriptionVariables",
		"descVarsId",
	}
	descVarValueKeys = []string{"Variables", "variables", "Vars", "vars", "Values", "values"}
	descVarSplit     = regexp.MustCompile(`[;,|]`)
)

// DurationMS resolves a spell's duration in milliseconds: through its
// DurationIndex row first, then a direct Duration column. ok is false when
// the spell carries neither.
func DurationMS(spell rowfield.Row, durations map[int]rowfield.Row) (ms float64, ok bool) {
	if spell == nil {
		return 0, false
	}
	if idx := rowfield.Int(spell, 0, durationIndexKeys...); idx != 0 {
		if row, found := lookup(durations, idx); found {
			for _, key := range durationRowKeys {
				if v := rowfield.Float(row, 0, key); v != 0 {
					return v, true
				}
			}
		}
	}
	if rowfield.Has(spell, directDurationKey...) {
		return rowfield.Float(spell, 0, directDurationKey...), true
	}
	return 0, false
}

// PeriodSeconds is effect idx's aura tick interval rounded to whole seconds.
// Zero means the effect does not tick.
func PeriodSeconds(spell rowfield.Row, idx int) float64 {
	ms := rowfield.Float(spell, 0, rowfield.Indexed("EffectAuraPeriod", idx)...)
	if ms == 0 {
		return 0
	}
	return roundHalfUp(ms / 1000)
}

// RadiusYards resolves effect idx's radius through the radius table.
func RadiusYards(spell rowfield.Row, radii map[int]rowfield.Row, idx int) float64 {
	radIdx := rowfield.Int(spell, 0, rowfield.Indexed("EffectRadiusIndex", idx)...)
	if radIdx == 0 {
		return 0
	}
	row, ok := lookup(radii, radIdx)
	if !ok {
		return 0
	}
	return rowfield.Float(row, 0, radiusRowKeys...)
}

// DescVarValues parses a description-variables row into its ordered numbers.
// Non-numeric entries are dropped.
func DescVarValues(row rowfield.Row) []float64 {
	raw := strings.TrimSpace(rowfield.String(row, descVarValueKeys...))
	if raw == "" {
		return nil
	}
	parts := descVarSplit.Split(raw, -1)
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, ok := parseFinite(p)
		if !ok {
			continue
		}
		out = append(out, v)
	}
	return out
}

func parseFinite(s string) (float64, bool) {
	v := rowfield.Number(s, math.NaN())
	return v, !math.IsNaN(v)
}

// DescVar returns the 1-based idx value of the spell's description
// variables. ok is false when the spell has no variables row or idx is out
// of range.
func DescVar(spell rowfield.Row, idx int, descVars map[int]rowfield.Row) (float64, bool) {
	if spell == nil || idx < 1 {
		return 0, false
	}
	id := rowfield.Int(spell, 0, descVarIDKeys...)
	if id == 0 {
		return 0, false
	}
	row, ok := lookup(descVars, id)
	if !ok {
		return 0, false
	}
	vars := DescVarValues(row)
	if idx > len(vars) {
		return 0, false
	}
	return vars[idx-1], true
}
