package tooltip

import (
	"fmt"
	"math"

	"github.com/KirkDiggler/talent-api/internal/pkg/rowfield"
)

// roundHalfUp rounds .5 toward positive infinity, matching how the game
// client rounds tooltip values.
func roundHalfUp(f float64) float64 {
	return math.Floor(f + 0.5)
}

// FormatNumber prints a plain number without trailing zeros.
func FormatNumber(f float64) string {
	return rowfield.FormatNumber(f)
}

// FormatScaled prints the result of a $/D; division with at most three decimals.
func FormatScaled(f float64) string {
	if f == math.Trunc(f) {
		return FormatNumber(f)
	}
	return FormatNumber(roundHalfUp(f*1000) / 1000)
}

// FormatYards prints a radius rounded to two decimals.
func FormatYards(yards float64) string {
	if yards == 0 {
		return "0"
	}
	return FormatNumber(roundHalfUp(yards*100) / 100)
}

// FormatDuration is the token form of a duration: whole seconds below a
// minute, otherwise whole minutes.
func FormatDuration(ms float64) string {
	switch {
	case ms == 0:
		return "0 sec"
	case ms < 0:
		return "infinite"
	}
	sec := roundHalfUp(ms / 1000)
	if sec < 60 {
		return FormatNumber(sec) + " sec"
	}
	return FormatNumber(roundHalfUp(sec/60)) + " min"
}

// FormatDurationLong is the header form of a duration and keeps the second
// remainder: "1 min 30 sec".
func FormatDurationLong(ms float64) string {
	switch {
	case ms == 0:
		return "0 sec"
	case ms < 0:
		return "infinite"
	}
	sec := roundHalfUp(ms / 1000)
	if sec < 60 {
		return FormatNumber(sec) + " sec"
	}
	minutes := math.Floor(sec / 60)
	rest := sec - minutes*60
	if rest == 0 {
		return FormatNumber(minutes) + " min"
	}
	return fmt.Sprintf("%s min %s sec", FormatNumber(minutes), FormatNumber(rest))
}

// FormatSeconds prints a millisecond amount as seconds with up to two decimals.
func FormatSeconds(ms float64) string {
	return FormatNumber(roundHalfUp(ms/10) / 100)
}
