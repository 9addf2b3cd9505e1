package tooltip

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/KirkDiggler/talent-api/internal/pkg/rowfield"
)

var (
	scaledNumberToken  = regexp.MustCompile(`\$/\s*(1000|100|10|2)\s*;\s*\$\s*(\d+)`)
	scaledLetterToken  = regexp.MustCompile(`\$/\s*(1000|100|10|2)\s*;\s*\$?\s*(\d+)?\s*([sSmMhHnNuU])\s*(\d+)`)
	bareNumberToken    = regexp.MustCompile(`\$(\d+)`)
	effectValueToken   = regexp.MustCompile(`\$(\d+)?([sm])(\d+)`)
	procToken          = regexp.MustCompile(`\$(\d+)?([hHnNuU])(\d+)?`)
	radiusToken        = regexp.MustCompile(`\$(\d+)?a(\d+)`)
	periodToken        = regexp.MustCompile(`\$(\d+)?t(\d+)`)
	durationToken      = regexp.MustCompile(`\$(\d+)?d`)
	totalToken         = regexp.MustCompile(`\$(\d+)?o(\d+)`)
	perResourceToken   = regexp.MustCompile(`\$(\d+)?b(\d+)`)
	pluralToken        = regexp.MustCompile(`\$[lL]([^:;]*):([^;]*);`)
	numericLiteral     = regexp.MustCompile(`-?\d+(?:\.\d+)?`)
	leftoverTokenMatch = regexp.MustCompile(`\$[0-9A-Za-z/]`)
)

var (
	procChanceKeys  = []string{"ProcChance", "procChance"}
	procPPMKeys     = []string{"ProcsPerMinute", "ProcPPM", "BasePPM", "procsPerMinute"}
	procChargeKeys  = []string{"ProcCharges", "procCharges"}
	stackAmountKeys = []string{"StackAmount", "CumulativeAura", "stackAmount"}
)

// match is one regexp hit handed to a pass. before is the output already
// produced by the current pass, left of the match.
type match struct {
	text   string
	groups []string
	before string
}

func (m match) group(i int) string {
	if i >= len(m.groups) {
		return ""
	}
	return m.groups[i]
}

type pass struct {
	name string
	re   *regexp.Regexp

	// notBeforeLetter skips a match that runs straight into a letter.
	notBeforeLetter bool
	expand          func(r *resolution, m match) (string, bool)
}

// passes run strictly in order; later passes see the output of earlier ones.
var passes = []pass{
	{name: "scaled_number", re: scaledNumberToken, notBeforeLetter: true, expand: (*resolution).scaledNumber},
	{name: "scaled_letter", re: scaledLetterToken, expand: (*resolution).scaledLetter},
	{name: "bare_number", re: bareNumberToken, notBeforeLetter: true, expand: (*resolution).bareNumber},
	{name: "effect_value", re: effectValueToken, expand: (*resolution).effectValue},
	{name: "proc", re: procToken, expand: (*resolution).proc},
	{name: "radius", re: radiusToken, expand: (*resolution).radius},
	{name: "period", re: periodToken, expand: (*resolution).period},
	{name: "duration", re: durationToken, expand: (*resolution).duration},
	{name: "total", re: totalToken, expand: (*resolution).total},
	{name: "per_resource", re: perResourceToken, expand: (*resolution).perResource},
	{name: "plural", re: pluralToken, expand: (*resolution).plural},
}

// Resolver expands description templates against a fixed set of lookup
// tables. It holds no mutable state and is safe for concurrent use.
type Resolver struct {
	tables *Tables
}

// NewResolver returns a Resolver over tables. A nil tables value behaves
// like a set of empty tables.
func NewResolver(tables *Tables) *Resolver {
	if tables == nil {
		tables = &Tables{}
	}
	return &Resolver{tables: tables}
}

// Tables exposes the lookup tables the resolver reads from.
func (r *Resolver) Tables() *Tables {
	return r.tables
}

// Resolve expands every recognized token in raw using spell as the current
// spell. Tokens that cannot be resolved stay in the output unchanged.
func (r *Resolver) Resolve(raw string, spell rowfield.Row) string {
	if raw == "" {
		return raw
	}
	res := &resolution{tables: r.tables, spell: spell}

	out := NormalizeNewlines(raw)
	for _, p := range passes {
		out = p.apply(res, out)
	}
	return NormalizeNewlines(out)
}

// Unresolved counts the $ tokens left in a resolved string.
func Unresolved(s string) int {
	return len(leftoverTokenMatch.FindAllStringIndex(s, -1))
}

func (p pass) apply(res *resolution, s string) string {
	locs := p.re.FindAllStringSubmatchIndex(s, -1)
	if len(locs) == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	last := 0
	for _, loc := range locs {
		start, end := loc[0], loc[1]
		b.WriteString(s[last:start])
		last = end

		text := s[start:end]
		if p.notBeforeLetter && end < len(s) && isLetter(s[end]) {
			b.WriteString(text)
			continue
		}

		groups := make([]string, len(loc)/2)
		for i := range groups {
			if loc[2*i] >= 0 {
				groups[i] = s[loc[2*i]:loc[2*i+1]]
			}
		}
		replacement, ok := p.expand(res, match{text: text, groups: groups, before: b.String()})
		if !ok {
			replacement = text
		}
		b.WriteString(replacement)
	}
	b.WriteString(s[last:])
	return b.String()
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// resolution is the per-call context shared by every pass.
type resolution struct {
	tables *Tables
	spell  rowfield.Row
}

// spellFor picks the referenced spell when idStr is set, the current spell
// otherwise.
func (r *resolution) spellFor(idStr string) (rowfield.Row, bool) {
	if idStr == "" {
		return r.spell, r.spell != nil
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		return nil, false
	}
	return lookup(r.tables.Spells, id)
}

func effectIndex(s string) (int, bool) {
	idx, err := strconv.Atoi(s)
	if err != nil || idx < 1 || idx > MaxEffects {
		return 0, false
	}
	return idx, true
}

func divisor(s string) float64 {
	d, err := strconv.ParseFloat(s, 64)
	if err != nil || d == 0 {
		return 1
	}
	return d
}

// $/D;$N
func (r *resolution) scaledNumber(m match) (string, bool) {
	div := divisor(m.group(1))
	idx, err := strconv.Atoi(m.group(2))
	if err != nil || idx < 1 {
		return "", false
	}
	if v, ok := DescVar(r.spell, idx, r.tables.DescVars); ok {
		return FormatScaled(v / div), true
	}
	if r.spell == nil || idx > MaxEffects {
		return "", false
	}
	return FormatScaled(EffectFor(r.spell, idx).Display() / div), true
}

// $/D;[$ID]LN
func (r *resolution) scaledLetter(m match) (string, bool) {
	div := divisor(m.group(1))
	idx, ok := effectIndex(m.group(4))
	if !ok {
		return "", false
	}
	spell, ok := r.spellFor(m.group(2))
	if !ok {
		return "", false
	}
	if v, ok := DescVar(spell, idx, r.tables.DescVars); ok {
		return FormatScaled(v / div), true
	}
	return FormatScaled(EffectFor(spell, idx).Display() / div), true
}

// $N
func (r *resolution) bareNumber(m match) (string, bool) {
	idx, err := strconv.Atoi(m.group(1))
	if err != nil {
		return "", false
	}
	v, ok := DescVar(r.spell, idx, r.tables.DescVars)
	if !ok {
		return "", false
	}
	return FormatNumber(v), true
}

// $sN, $mN
func (r *resolution) effectValue(m match) (string, bool) {
	idx, ok := effectIndex(m.group(3))
	if !ok {
		return "", false
	}
	spell, ok := r.spellFor(m.group(1))
	if !ok {
		return "", false
	}
	return EffectFor(spell, idx).Text(), true
}

// $hN, $nN, $uN with the index defaulting to 1.
func (r *resolution) proc(m match) (string, bool) {
	idx := 1
	if s := m.group(3); s != "" {
		var ok bool
		if idx, ok = effectIndex(s); !ok {
			return "", false
		}
	}
	spell, ok := r.spellFor(m.group(1))
	if !ok {
		return "", false
	}

	var v float64
	switch strings.ToLower(m.group(2)) {
	case "h":
		v = firstNonZero(spell, procChanceKeys, procPPMKeys)
	case "n":
		v = firstNonZero(spell, rowfield.Indexed("EffectChainTargets", idx), procChargeKeys, stackAmountKeys)
	case "u":
		v = firstNonZero(spell, stackAmountKeys)
	}
	if v != 0 {
		return FormatNumber(v), true
	}
	return EffectFor(spell, idx).Text(), true
}

func firstNonZero(row rowfield.Row, keySets ...[]string) float64 {
	for _, keys := range keySets {
		if v := rowfield.Float(row, 0, keys...); v != 0 {
			return v
		}
	}
	return 0
}

// $aN
func (r *resolution) radius(m match) (string, bool) {
	idx, ok := effectIndex(m.group(2))
	if !ok {
		return "", false
	}
	spell, ok := r.spellFor(m.group(1))
	if !ok {
		return "", false
	}
	yards := RadiusYards(spell, r.tables.Radii, idx)
	if yards == 0 {
		return "", false
	}
	return FormatYards(yards), true
}

// $tN
func (r *resolution) period(m match) (string, bool) {
	idx, ok := effectIndex(m.group(2))
	if !ok {
		return "", false
	}
	spell, ok := r.spellFor(m.group(1))
	if !ok {
		return "", false
	}
	sec := PeriodSeconds(spell, idx)
	if sec == 0 {
		return "", false
	}
	return FormatNumber(sec), true
}

// $d
func (r *resolution) duration(m match) (string, bool) {
	spell, ok := r.spellFor(m.group(1))
	if !ok {
		return "", false
	}
	ms, ok := DurationMS(spell, r.tables.Durations)
	if !ok {
		return "", false
	}
	return FormatDuration(ms), true
}

// $oN
func (r *resolution) total(m match) (string, bool) {
	idx, ok := effectIndex(m.group(2))
	if !ok {
		return "", false
	}
	spell, ok := r.spellFor(m.group(1))
	if !ok {
		return "", false
	}

	base := EffectFor(spell, idx).Display()
	periodSec := PeriodSeconds(spell, idx)
	durMS, ok := DurationMS(spell, r.tables.Durations)
	if !ok || periodSec <= 0 || durMS <= 0 {
		return FormatNumber(base), true
	}
	ticks := math.Max(1, math.Floor(durMS/1000/periodSec))
	return FormatNumber(base * ticks), true
}

// $bN
func (r *resolution) perResource(m match) (string, bool) {
	idx, ok := effectIndex(m.group(2))
	if !ok {
		return "", false
	}
	spell, ok := r.spellFor(m.group(1))
	if !ok {
		return "", false
	}
	v := firstNonZero(spell,
		rowfield.Indexed("EffectPointsPerResource", idx),
		rowfield.Indexed("EffectPointsPerComboPoint", idx),
	)
	if v != 0 {
		return FormatNumber(v), true
	}
	return EffectFor(spell, idx).Text(), true
}

// $lsingular:plural; picks a form from the nearest number to its left.
func (r *resolution) plural(m match) (string, bool) {
	singular, plural := m.group(1), m.group(2)
	nums := numericLiteral.FindAllString(m.before, -1)
	if len(nums) == 0 {
		return plural, true
	}
	v, err := strconv.ParseFloat(nums[len(nums)-1], 64)
	if err == nil && v == 1 {
		return singular, true
	}
	return plural, true
}
