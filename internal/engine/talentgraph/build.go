// Package talentgraph normalizes flat talent, spell and tab rows into
// positioned talent trees with prerequisite arrows and lazily resolved
// rank descriptions.
package talentgraph

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/KirkDiggler/talent-api/internal/engine/tooltip"
	"github.com/KirkDiggler/talent-api/internal/entities/talents"
	"github.com/KirkDiggler/talent-api/internal/errors"
	"github.com/KirkDiggler/talent-api/internal/pkg/rowfield"
)

// MaxRanks is the number of SpellRank columns on a talent row.
const MaxRanks = 9

var (
	idKeys         = []string{"ID", "Id", "id"}
	tabIDKeys      = []string{"TabID", "TabId", "tabId"}
	tierKeys       = []string{"TierID", "TierId", "Tier"}
	columnKeys     = []string{"ColumnIndex", "Column", "Col"}
	petMaskKeys    = []string{"PetTalentMask", "PetTalentMask_1", "PetTalentMask1", "petTalentMask"}
	classMaskKeys  = []string{"ClassMask", "ClassMask_0", "classMask"}
	tabNameKeys    = []string{"Name_Lang_enUS", "Name", "name", "TabName", "tabName"}
	tabOrderKeys   = []string{"OrderIndex", "TabPage", "orderIndex"}
	spellNameKeys  = []string{"Name_Lang_enUS", "Name", "name"}
	descKeys       = []string{"Description_Lang_enUS", "Description", "description"}
	auraDescKeys   = []string{"AuraDescription_Lang_enUS", "AuraDescription"}
	prereqKeys     = []string{"PrereqTalent_1", "PrereqTalent1", "PrereqTalent", "PrereqTalentID", "PrereqTalentId"}
	prereqNameKeys = []string{"PrereqTalentName", "prereqTalentName"}
)

// talentRow is a talent that survived filtering, before it is attached to
// a tree.
type talentRow struct {
	raw      rowfield.Row
	id       int
	tabID    int
	tier     int
	pos      talents.Position
	name     string
	rankIDs  []int
	treeName string
}

type builder struct {
	opts     options
	resolver *tooltip.Resolver
	tabs     map[int]rowfield.Row

	// static talent name -> static tree name
	staticTree map[string]string
}

// Build normalizes p into TalentData. Rows missing identifying fields are
// skipped; the only error is a payload flagged as failed by its provider.
func Build(p *talents.Payload, opts ...Option) (talents.TalentData, error) {
	if p == nil {
		return nil, errors.InvalidArgument("payload is required")
	}
	if p.Error != "" {
		return nil, errors.FailedPreconditionf("payload rejected: %s", p.Error)
	}

	b := &builder{opts: options{policy: PolicyLive}}
	for _, opt := range opts {
		opt(&b.opts)
	}
	b.resolver = tooltip.NewResolver(&tooltip.Tables{
		Spells:    tooltip.Index(p.Spells),
		Durations: tooltip.Index(p.Durations),
		Radii:     tooltip.Index(p.Radii),
		DescVars:  tooltip.Index(p.DescVars),
		CastTimes: tooltip.Index(p.CastTimes),
		Ranges:    tooltip.Index(p.Ranges),
	})
	b.tabs = tooltip.Index(p.Tabs)
	b.indexStatic()

	rows := b.collect(p.Talents)
	return b.assemble(rows), nil
}

func (b *builder) indexStatic() {
	b.staticTree = make(map[string]string)
	for _, treeName := range b.opts.static.Names() {
		for name := range b.opts.static[treeName].Talents {
			b.staticTree[name] = treeName
		}
	}
}

// excludedTab reports whether a tab contributes no tree: pet tabs always,
// classless tabs when no class filter is set, foreign tabs when one is.
func (b *builder) excludedTab(tab rowfield.Row) bool {
	if tab == nil {
		return false
	}
	if rowfield.Int(tab, 0, petMaskKeys...) != 0 {
		return true
	}
	mask := rowfield.Int(tab, 0, classMaskKeys...)
	if b.opts.classMask == 0 {
		return mask == 0
	}
	return mask != 0 && mask&b.opts.classMask == 0
}

func (b *builder) collect(rows []rowfield.Row) []*talentRow {
	out := make([]*talentRow, 0, len(rows))
	for _, row := range rows {
		id := rowfield.Int(row, 0, idKeys...)
		if id <= 0 {
			continue
		}
		tabID := rowfield.Int(row, 0, tabIDKeys...)
		if b.excludedTab(b.tabs[tabID]) {
			continue
		}

		rankIDs := rankSpellIDs(row)
		if len(rankIDs) == 0 {
			continue
		}

		name := rowfield.String(b.spell(rankIDs[0]), spellNameKeys...)
		if name == "" {
			name = "Talent_" + strconv.Itoa(id)
		}

		tier := max(0, rowfield.Int(row, 0, tierKeys...))
		t := &talentRow{
			raw:     row,
			id:      id,
			tabID:   tabID,
			tier:    tier,
			pos:     ToPosition(tier, rowfield.Int(row, 0, columnKeys...)),
			name:    name,
			rankIDs: rankIDs,
		}

		if b.opts.policy == PolicyWhitelist {
			treeName, ok := b.staticTree[name]
			if !ok {
				continue
			}
			t.treeName = treeName
		} else {
			t.treeName = b.treeName(tabID)
		}
		out = append(out, t)
	}
	return out
}

// rankSpellIDs is the leading run of non-zero SpellRank columns.
func rankSpellIDs(row rowfield.Row) []int {
	ids := make([]int, 0, MaxRanks)
	for rank := 1; rank <= MaxRanks; rank++ {
		id := rowfield.Int(row, 0, rowfield.Indexed("SpellRank", rank)...)
		if id <= 0 {
			break
		}
		ids = append(ids, id)
	}
	return ids
}

func (b *builder) spell(id int) rowfield.Row {
	return b.resolver.Tables().Spells[id]
}

func (b *builder) treeName(tabID int) string {
	if name := strings.TrimSpace(rowfield.String(b.tabs[tabID], tabNameKeys...)); name != "" {
		return name
	}
	return fmt.Sprintf("Tab %d", tabID)
}

func (b *builder) assemble(rows []*talentRow) talents.TalentData {
	out := make(talents.TalentData)
	byID := make(map[int]*talentRow, len(rows))
	byName := make(map[string]*talentRow, len(rows))
	for _, t := range rows {
		byID[t.id] = t
		byName[t.name] = t
	}

	seq := 0
	for _, t := range rows {
		tree, ok := out[t.treeName]
		if !ok {
			tree = b.newTree(t, seq)
			seq++
			out[t.treeName] = tree
		}
		tal := b.talent(t)
		if pre := b.prereq(t, byID, byName); pre != nil {
			tal.Prereq = pre.name
			tal.Arrows = []talents.Arrow{NewArrow(pre.pos, t.pos)}
		}
		tree.Talents[t.name] = tal
	}

	b.mergeStatic(out)
	return out
}

func (b *builder) newTree(t *talentRow, seq int) *talents.Tree {
	tree := &talents.Tree{
		Name:    t.treeName,
		Order:   seq,
		Talents: make(map[string]*talents.Talent),
	}
	if b.opts.policy == PolicyWhitelist {
		return tree
	}
	tab := b.tabs[t.tabID]
	tree.Icon = RowIcon(tab)
	if rowfield.Has(tab, tabOrderKeys...) {
		tree.Order = rowfield.Int(tab, seq, tabOrderKeys...)
	}
	return tree
}

func (b *builder) talent(t *talentRow) *talents.Talent {
	icon := RowIcon(b.spell(t.rankIDs[0]))
	if icon == "" {
		if st, ok := b.opts.static.Talent(b.staticTree[t.name], t.name); ok {
			icon = st.Icon
		}
	}

	return &talents.Talent{
		ID:          t.id,
		Name:        t.name,
		Pos:         t.pos,
		Icon:        icon,
		MaxRank:     len(t.rankIDs),
		ReqPoints:   talents.RequiredPoints(t.tier),
		Description: b.describer(t.rankIDs),
		Header:      b.headerer(t.rankIDs),
	}
}

// rankSpell clamps rank into the talent's rank range.
func (b *builder) rankSpell(rankIDs []int, rank int) rowfield.Row {
	rank = clamp(rank, 1, len(rankIDs))
	return b.spell(rankIDs[rank-1])
}

func (b *builder) describer(rankIDs []int) talents.RankText {
	return func(rank int) string {
		spell := b.rankSpell(rankIDs, rank)
		raw := rowfield.String(spell, descKeys...)
		if raw == "" {
			raw = rowfield.String(spell, auraDescKeys...)
		}
		return b.resolver.Resolve(raw, spell)
	}
}

func (b *builder) headerer(rankIDs []int) talents.RankText {
	return func(rank int) string {
		return b.resolver.Header(b.rankSpell(rankIDs, rank))
	}
}

// prereq resolves the talent's prerequisite by numeric ID, falling back to
// an exact name match.
func (b *builder) prereq(t *talentRow, byID map[int]*talentRow, byName map[string]*talentRow) *talentRow {
	if v, ok := rowfield.Lookup(t.raw, prereqKeys...); ok {
		if id := int(rowfield.Number(v, 0)); id > 0 {
			if pre, ok := byID[id]; ok && pre != t {
				return pre
			}
		} else if name, isName := v.(string); isName {
			if pre, ok := byName[strings.TrimSpace(name)]; ok && pre != t {
				return pre
			}
		}
	}
	if name := strings.TrimSpace(rowfield.String(t.raw, prereqNameKeys...)); name != "" {
		if pre, ok := byName[name]; ok && pre != t {
			return pre
		}
	}
	return nil
}

// mergeStatic fills missing visuals from the static dataset and adds its
// trees that the live payload left empty.
func (b *builder) mergeStatic(out talents.TalentData) {
	if len(b.opts.static) == 0 {
		return
	}
	// live trees without an explicit order follow the static trees
	offset := len(b.opts.static)
	for name, tree := range out {
		if _, ok := b.opts.static[name]; !ok {
			tree.Order += offset
		}
	}

	for _, name := range b.opts.static.Names() {
		st := b.opts.static[name]
		tree, ok := out[name]
		if !ok {
			tree = &talents.Tree{Name: name, Talents: make(map[string]*talents.Talent)}
			out[name] = tree
		}
		tree.Order = st.Order
		if tree.Background == "" {
			tree.Background = st.Background
		}
		if tree.Icon == "" {
			tree.Icon = st.Icon
		}
	}
}
