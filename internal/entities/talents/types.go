// Package talents holds the talent calculator's domain types: the raw
// payload rows as delivered by a data provider and the normalized tree
// structure the calculator renders.
package talents

import (
	"sort"

	"github.com/KirkDiggler/talent-api/internal/pkg/rowfield"
)

// Payload is one data provider response. Every row is an open-ended column
// map; the optional arrays may be missing from older providers.
type Payload struct {
	Talents   []rowfield.Row `json:"talents"`
	Spells    []rowfield.Row `json:"spells"`
	Tabs      []rowfield.Row `json:"tabs,omitempty"`
	Durations []rowfield.Row `json:"durations,omitempty"`
	Radii     []rowfield.Row `json:"radii,omitempty"`
	DescVars  []rowfield.Row `json:"descVars,omitempty"`
	CastTimes []rowfield.Row `json:"castTimes,omitempty"`
	Ranges    []rowfield.Row `json:"ranges,omitempty"`

	// Error is set by providers that failed server side. A payload carrying
	// it must be rejected as a whole.
	Error string `json:"error,omitempty"`
}

// Position is a two character grid code: tier letter then column digit ("b2").
type Position string

// Coords returns the 1-based row and column of the position.
func (p Position) Coords() (row, col int, ok bool) {
	if len(p) < 2 || p[0] < 'a' || p[0] > 'z' {
		return 0, 0, false
	}
	col = 0
	for _, c := range p[1:] {
		if c < '0' || c > '9' {
			return 0, 0, false
		}
		col = col*10 + int(c-'0')
	}
	return int(p[0]-'a') + 1, col, true
}

// ArrowDir names the artwork used to draw a prerequisite arrow.
type ArrowDir string

// Arrow directions understood by the renderer.
const (
	ArrowDown          ArrowDir = "down"
	ArrowLeft          ArrowDir = "left"
	ArrowRight         ArrowDir = "right"
	ArrowRightDown     ArrowDir = "right-down"
	ArrowRightDownDown ArrowDir = "right-down-down"
)

// Arrow links a prerequisite talent to its dependent.
type Arrow struct {
	Dir  ArrowDir `json:"dir" yaml:"dir"`
	From Position `json:"from" yaml:"from"`
	To   Position `json:"to" yaml:"to"`
}

// RankText produces text for a 1-based talent rank. It is evaluated lazily
// so only the displayed rank is ever resolved.
type RankText func(rank int) string

// Talent is a positioned, described node of a talent tree.
type Talent struct {
	ID        int      `json:"id,omitempty"`
	Name      string   `json:"name"`
	Pos       Position `json:"pos"`
	Icon      string   `json:"icon"`
	MaxRank   int      `json:"maxRank"`
	ReqPoints int      `json:"reqPoints"`
	Prereq    string   `json:"prereq,omitempty"`
	Arrows    []Arrow  `json:"arrows,omitempty"`

	Description RankText `json:"-"`
	Header      RankText `json:"-"`
}

// Describe returns the description for rank, or "" when none is attached.
func (t *Talent) Describe(rank int) string {
	if t == nil || t.Description == nil {
		return ""
	}
	return t.Description(rank)
}

// HeaderFor returns the cost/range/cast summary for rank, if any.
func (t *Talent) HeaderFor(rank int) string {
	if t == nil || t.Header == nil {
		return ""
	}
	return t.Header(rank)
}

// Tree is one named talent tab.
type Tree struct {
	Name       string             `json:"name"`
	Background string             `json:"background"`
	Icon       string             `json:"icon"`
	Order      int                `json:"order"`
	Talents    map[string]*Talent `json:"talents"`
}

// TalentData maps tree display names to trees.
type TalentData map[string]*Tree

// Names returns tree names in display order.
func (d TalentData) Names() []string {
	names := make([]string, 0, len(d))
	for name := range d {
		names = append(names, name)
	}
	sort.SliceStable(names, func(i, j int) bool {
		a, b := d[names[i]], d[names[j]]
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return names[i] < names[j]
	})
	return names
}

// Talent finds a talent by tree and talent name.
func (d TalentData) Talent(tree, name string) (*Talent, bool) {
	t, ok := d[tree]
	if !ok || t == nil {
		return nil, false
	}
	tal, ok := t.Talents[name]
	return tal, ok && tal != nil
}

// SortedTalents returns a tree's talents ordered by grid position then name.
func (t *Tree) SortedTalents() []*Talent {
	out := make([]*Talent, 0, len(t.Talents))
	for _, tal := range t.Talents {
		out = append(out, tal)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Pos != out[j].Pos {
			return out[i].Pos < out[j].Pos
		}
		return out[i].Name < out[j].Name
	})
	return out
}
