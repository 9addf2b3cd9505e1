// Package tooltip turns raw DBC spell description templates into tooltip
// text by expanding Blizzard style $ tokens against numeric spell fields.
//
// Resolution never fails: a token that cannot be resolved is left in the
// output verbatim.
package tooltip

import (
	"github.com/KirkDiggler/talent-api/internal/pkg/rowfield"
)

// Column spellings shared by every lookup table.
var idKeys = []string{"ID", "Id", "id"}

// Tables are the ID-indexed lookup tables a template may reference.
// Any table may be nil.
type Tables struct {
	Spells    map[int]rowfield.Row
	Durations map[int]rowfield.Row
	Radii     map[int]rowfield.Row
	DescVars  map[int]rowfield.Row
	CastTimes map[int]rowfield.Row
	Ranges    map[int]rowfield.Row
}

// Index keys rows by their positive integer ID. Rows without one are
// dropped; on duplicate IDs the last row wins.
func Index(rows []rowfield.Row) map[int]rowfield.Row {
	out := make(map[int]rowfield.Row, len(rows))
	for _, row := range rows {
		if id := RowID(row); id > 0 {
			out[id] = row
		}
	}
	return out
}

// RowID reads a row's integer ID, 0 when absent.
func RowID(row rowfield.Row) int {
	return rowfield.Int(row, 0, idKeys...)
}

func lookup(table map[int]rowfield.Row, id int) (rowfield.Row, bool) {
	if table == nil || id <= 0 {
		return nil, false
	}
	row, ok := table[id]
	return row, ok && row != nil
}
