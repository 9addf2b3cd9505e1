package tooltip

import (
	"fmt"
	"math"
	"strings"

	"github.com/KirkDiggler/talent-api/internal/pkg/rowfield"
)

// AttrPassive marks a spell that has no cost, range or cast line.
const AttrPassive = 0x40

// Power types as stored in Spell.PowerType.
const (
	PowerMana       = 0
	PowerRage       = 1
	PowerFocus      = 2
	PowerEnergy     = 3
	PowerHappiness  = 4
	PowerRunes      = 5
	PowerRunicPower = 6
)

var powerNames = map[int]string{
	PowerMana:       "Mana",
	PowerRage:       "Rage",
	PowerFocus:      "Focus",
	PowerEnergy:     "Energy",
	PowerHappiness:  "Happiness",
	PowerRunes:      "Runes",
	PowerRunicPower: "Runic Power",
}

var (
	attributeKeys     = []string{"Attributes", "Attributes_0", "attributes"}
	costPctKeys       = []string{"ManaCostPct", "ManaCostPercentage", "ManaCostPercent", "manaCostPct"}
	costKeys          = []string{"ManaCost", "manaCost"}
	costPerSecKeys    = []string{"ManaPerSecond", "ManaCostPerSecond", "manaPerSecond"}
	powerTypeKeys     = []string{"PowerType", "powerType"}
	rangeIndexKeys    = []string{"RangeIndex", "rangeIndex"}
	rangeMinKeys      = []string{"RangeMin", "RangeMin_1", "RangeMin1", "MinRange", "rangeMin"}
	rangeMaxKeys      = []string{"RangeMax", "RangeMax_1", "RangeMax1", "MaxRange", "rangeMax"}
	castIndexKeys     = []string{"CastingTimeIndex", "CastTimeIndex", "castingTimeIndex"}
	castBaseKeys      = []string{"Base", "CastTime", "BaseCastTime", "base"}
	directCastKeys    = []string{"CastTime", "CastingTime", "castTime"}
	recoveryKeys      = []string{"RecoveryTime", "recoveryTime"}
	categoryRecovKeys = []string{"CategoryRecoveryTime", "categoryRecoveryTime"}
)

// Passive reports whether the spell carries the passive attribute bit.
func Passive(spell rowfield.Row) bool {
	attrs := int64(rowfield.Float(spell, 0, attributeKeys...))
	return attrs&AttrPassive != 0
}

// Header builds the cost/range/cast/cooldown summary shown above a resolved
// description. Clauses are newline separated and absent values are skipped.
// Passive spells have no header.
func (r *Resolver) Header(spell rowfield.Row) string {
	if spell == nil || Passive(spell) {
		return ""
	}

	powerType := rowfield.Int(spell, PowerMana, powerTypeKeys...)
	clauses := make([]string, 0, 5)
	for _, c := range []string{
		costClause(spell, powerType),
		perSecondClause(spell, powerType),
		r.rangeClause(spell),
		r.castClause(spell),
		cooldownClause(spell),
	} {
		if c != "" {
			clauses = append(clauses, c)
		}
	}
	return strings.Join(clauses, "\n")
}

func powerName(powerType int) string {
	if name, ok := powerNames[powerType]; ok {
		return name
	}
	return powerNames[PowerMana]
}

// powerAmount undoes the tenfold storage of rage and runic power.
func powerAmount(v float64, powerType int) float64 {
	if powerType == PowerRage || powerType == PowerRunicPower {
		return math.Floor(v / 10)
	}
	return v
}

func costClause(spell rowfield.Row, powerType int) string {
	if pct := rowfield.Float(spell, 0, costPctKeys...); pct > 0 {
		return FormatNumber(pct) + "% of base mana"
	}
	cost := powerAmount(rowfield.Float(spell, 0, costKeys...), powerType)
	if cost <= 0 {
		return ""
	}
	return fmt.Sprintf("%s %s", FormatNumber(cost), powerName(powerType))
}

func perSecondClause(spell rowfield.Row, powerType int) string {
	v := powerAmount(rowfield.Float(spell, 0, costPerSecKeys...), powerType)
	if v <= 0 {
		return ""
	}
	return fmt.Sprintf("plus %s %s per sec", FormatNumber(v), powerName(powerType))
}

func (r *Resolver) rangeClause(spell rowfield.Row) string {
	src := spell
	if row, ok := lookup(r.tables.Ranges, rowfield.Int(spell, 0, rangeIndexKeys...)); ok {
		src = row
	}
	lo := rowfield.Float(src, 0, rangeMinKeys...)
	hi := rowfield.Float(src, 0, rangeMaxKeys...)
	switch {
	case hi <= 0:
		return ""
	case lo > 0 && lo < hi:
		return fmt.Sprintf("%s-%s yd range", FormatYards(lo), FormatYards(hi))
	default:
		return FormatYards(hi) + " yd range"
	}
}

func (r *Resolver) castClause(spell rowfield.Row) string {
	var (
		ms    float64
		found bool
	)
	if row, ok := lookup(r.tables.CastTimes, rowfield.Int(spell, 0, castIndexKeys...)); ok {
		ms, found = rowfield.Float(row, 0, castBaseKeys...), true
	} else if rowfield.Has(spell, directCastKeys...) {
		ms, found = rowfield.Float(spell, 0, directCastKeys...), true
	}
	switch {
	case !found:
		return ""
	case ms <= 0:
		return "Instant"
	default:
		return FormatSeconds(ms) + " sec cast"
	}
}

func cooldownClause(spell rowfield.Row) string {
	ms := math.Max(
		rowfield.Float(spell, 0, recoveryKeys...),
		rowfield.Float(spell, 0, categoryRecovKeys...),
	)
	if ms <= 0 {
		return ""
	}
	return FormatDurationLong(ms) + " cooldown"
}
