// Package rowfield reads loosely typed DBC export rows.
//
// Historical table dumps disagree on column spelling (Duration, Duration_1,
// duration, ...) so every read goes through an ordered list of candidate
// keys instead of a fixed struct field.
package rowfield

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Row is a single exported table row keyed by column name.
type Row map[string]any

// Lookup returns the value of the first candidate key that is present and non-nil.
func Lookup(row Row, keys ...string) (any, bool) {
	if row == nil {
		return nil, false
	}
	for _, key := range keys {
		if v, ok := row[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// Has reports whether any of the candidate keys carries a non-nil value.
func Has(row Row, keys ...string) bool {
	_, ok := Lookup(row, keys...)
	return ok
}

// Value returns the first present candidate value or def.
func Value(row Row, def any, keys ...string) any {
	if v, ok := Lookup(row, keys...); ok {
		return v
	}
	return def
}

// Float resolves the candidate keys and coerces the result to a finite number.
func Float(row Row, def float64, keys ...string) float64 {
	v, ok := Lookup(row, keys...)
	if !ok {
		return def
	}
	return Number(v, def)
}

// Int is Float truncated toward zero.
func Int(row Row, def int, keys ...string) int {
	return int(math.Trunc(Float(row, float64(def), keys...)))
}

// String resolves the candidate keys and renders the value as text.
// A present empty string wins over later candidates.
func String(row Row, keys ...string) string {
	v, ok := Lookup(row, keys...)
	if !ok {
		return ""
	}
	return Text(v)
}

// Indexed expands a per-effect column prefix into its known spellings,
// e.g. ("EffectBasePoints", 2) -> EffectBasePoints_2, EffectBasePoints2.
func Indexed(prefix string, idx int) []string {
	n := strconv.Itoa(idx)
	return []string{prefix + "_" + n, prefix + n}
}

// Number converts v to a finite float64. Strings are trimmed and an empty
// string counts as zero; anything unparseable or non-finite yields def.
func Number(v any, def float64) float64 {
	var f float64
	switch n := v.(type) {
	case nil:
		return def
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case bool:
		if n {
			return 1
		}
		return 0
	case json.Number:
		return parseNumber(string(n), def)
	case string:
		return parseNumber(n, def)
	case []byte:
		return parseNumber(string(n), def)
	default:
		return def
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return def
	}
	return f
}

func parseNumber(s string, def float64) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// 0x40 style masks show up in some hand-edited exports
		i, ierr := strconv.ParseInt(s, 0, 64)
		if ierr != nil {
			return def
		}
		f = float64(i)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return def
	}
	return f
}

// Text renders a scalar row value the way it would print in a tooltip.
func Text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return FormatNumber(t)
	case float32:
		return FormatNumber(float64(t))
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	default:
		f := Number(v, math.NaN())
		if math.IsNaN(f) {
			return ""
		}
		return FormatNumber(f)
	}
}

// FormatNumber prints a number in its shortest form with no trailing zeros.
func FormatNumber(f float64) string {
	if f == 0 {
		// collapse negative zero
		return "0"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
