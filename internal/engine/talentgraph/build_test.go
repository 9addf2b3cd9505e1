package talentgraph_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/talent-api/internal/engine/talentgraph"
	"github.com/KirkDiggler/talent-api/internal/entities/talents"
	"github.com/KirkDiggler/talent-api/internal/errors"
	"github.com/KirkDiggler/talent-api/internal/pkg/rowfield"
)

const (
	frostTab = 61
	fireTab  = 41
	petTab   = 409
)

type BuildTestSuite struct {
	suite.Suite
	payload *talents.Payload
}

func (s *BuildTestSuite) SetupTest() {
	s.payload = &talents.Payload{
		Tabs: []rowfield.Row{
			{"ID": frostTab, "Name_Lang_enUS": "Frost", "ClassMask": 128, "OrderIndex": 2, "TextureFilename": `Interface\Icons\Spell_Frost_FrostBolt02`},
			{"ID": fireTab, "Name_Lang_enUS": "Fire", "ClassMask": 128, "OrderIndex": 1, "IconUrl": "https://example.test/fire.jpg"},
			{"ID": petTab, "Name_Lang_enUS": "Ferocity", "ClassMask": 0, "PetTalentMask": 1},
		},
		Talents: []rowfield.Row{
			{"ID": 37, "TabID": frostTab, "TierID": 0, "ColumnIndex": 1, "SpellRank_1": 11071, "SpellRank_2": 12496, "SpellRank_3": 12497},
			{"ID": 38, "TabID": frostTab, "TierID": 1, "ColumnIndex": 1, "SpellRank_1": 11070, "PrereqTalent_1": 37},
			{"ID": 39, "TabID": frostTab, "TierID": 2, "ColumnIndex": 3, "SpellRank_1": 11958, "PrereqTalent": "Frostbite"},
			{"ID": 40, "TabID": fireTab, "TierID": 0, "ColumnIndex": 0, "SpellRank_1": 11069, "SpellRank_2": 0, "SpellRank_3": 12338},
			{"ID": 41, "TabID": fireTab, "TierID": 1, "ColumnIndex": 0},
			{"ID": 900, "TabID": petTab, "TierID": 0, "ColumnIndex": 0, "SpellRank_1": 61682},
			{"ID": 0, "TabID": fireTab, "SpellRank_1": 11069},
		},
		Spells: []rowfield.Row{
			{"ID": 11071, "Name_Lang_enUS": "Frostbite", "Description_Lang_enUS": "Gives your Chill effects a $h% chance to freeze the target for $d.", "ProcChance": 5, "Duration": 5000, "SpellIconID": 1, "IconUrl": "https://example.test/frostbite.jpg"},
			{"ID": 12496, "Name_Lang_enUS": "Frostbite", "Description_Lang_enUS": "Gives your Chill effects a $h% chance to freeze the target for $d.", "ProcChance": 10, "Duration": 5000},
			{"ID": 12497, "Name_Lang_enUS": "Frostbite", "Description_Lang_enUS": "Gives your Chill effects a $h% chance to freeze the target for $d.", "ProcChance": 15, "Duration": 5000},
			{"ID": 11070, "Name_Lang_enUS": "Improved Frost Nova", "AuraDescription_Lang_enUS": "Reduces the cooldown by $/1000;S1 sec.", "EffectBasePoints_1": 1999},
			{"ID": 11958, "Name_Lang_enUS": "Cold Snap", "Description_Lang_enUS": "Finishes the cooldown on your Frost spells.", "RecoveryTime": 600000},
			{"ID": 11069, "Name_Lang_enUS": "Improved Fireball", "Description_Lang_enUS": "Reduces the casting time of Fireball by $/1000;$s1 sec.", "EffectBasePoints_1": 99},
			{"ID": 61682, "Name_Lang_enUS": "Cobra Reflexes"},
		},
	}
}

func (s *BuildTestSuite) TestBuildsTreesAndTalents() {
	data, err := talentgraph.Build(s.payload)
	s.Require().NoError(err)

	s.Equal([]string{"Fire", "Frost"}, data.Names())
	s.Equal("https://example.test/fire.jpg", data["Fire"].Icon)
	s.Equal("https://wow.zamimg.com/images/wow/icons/large/spell_frost_frostbolt02.jpg", data["Frost"].Icon)

	frostbite, ok := data.Talent("Frost", "Frostbite")
	s.Require().True(ok)
	s.Equal(talents.Position("a2"), frostbite.Pos)
	s.Equal(3, frostbite.MaxRank)
	s.Equal(0, frostbite.ReqPoints)
	s.Equal("https://example.test/frostbite.jpg", frostbite.Icon)
	s.Equal("Gives your Chill effects a 10% chance to freeze the target for 5 sec.", frostbite.Describe(2))
}

func (s *BuildTestSuite) TestDescriptionClampsRank() {
	data, err := talentgraph.Build(s.payload)
	s.Require().NoError(err)

	frostbite, _ := data.Talent("Frost", "Frostbite")
	s.Contains(frostbite.Describe(0), "5% chance")
	s.Contains(frostbite.Describe(9), "15% chance")
}

func (s *BuildTestSuite) TestAuraDescriptionFallback() {
	data, err := talentgraph.Build(s.payload)
	s.Require().NoError(err)

	nova, ok := data.Talent("Frost", "Improved Frost Nova")
	s.Require().True(ok)
	s.Equal("Reduces the cooldown by 2 sec.", nova.Describe(1))
}

func (s *BuildTestSuite) TestHeader() {
	data, err := talentgraph.Build(s.payload)
	s.Require().NoError(err)

	snap, ok := data.Talent("Frost", "Cold Snap")
	s.Require().True(ok)
	s.Equal("10 min cooldown", snap.HeaderFor(1))
}

func (s *BuildTestSuite) TestPetTabExcluded() {
	data, err := talentgraph.Build(s.payload)
	s.Require().NoError(err)

	s.NotContains(data, "Ferocity")
	for _, tree := range data {
		s.NotContains(tree.Talents, "Cobra Reflexes")
	}
}

func (s *BuildTestSuite) TestClasslessTabExcludedWithoutFilter() {
	s.payload.Tabs[0]["ClassMask"] = 0
	data, err := talentgraph.Build(s.payload)
	s.Require().NoError(err)
	s.NotContains(data, "Frost")

	data, err = talentgraph.Build(s.payload, talentgraph.WithClassMask(128))
	s.Require().NoError(err)
	s.Contains(data, "Frost")
}

func (s *BuildTestSuite) TestClassFilterDropsForeignTabs() {
	data, err := talentgraph.Build(s.payload, talentgraph.WithClassMask(1))
	s.Require().NoError(err)
	s.Empty(data)
}

func (s *BuildTestSuite) TestZeroRankTalentsExcluded() {
	data, err := talentgraph.Build(s.payload)
	s.Require().NoError(err)

	fire := data["Fire"]
	s.Len(fire.Talents, 1)
	fireball := fire.Talents["Improved Fireball"]
	s.Require().NotNil(fireball)
	// SpellRank_2 is empty so the rank list stops after rank 1
	s.Equal(1, fireball.MaxRank)
	s.Equal("Reduces the casting time of Fireball by 0.1 sec.", fireball.Describe(1))
}

func (s *BuildTestSuite) TestPrerequisites() {
	data, err := talentgraph.Build(s.payload)
	s.Require().NoError(err)

	nova, _ := data.Talent("Frost", "Improved Frost Nova")
	s.Equal("Frostbite", nova.Prereq)
	s.Equal([]talents.Arrow{{Dir: talents.ArrowDown, From: "a2", To: "b2"}}, nova.Arrows)

	snap, _ := data.Talent("Frost", "Cold Snap")
	s.Equal("Frostbite", snap.Prereq)
	s.Equal([]talents.Arrow{{Dir: talents.ArrowRightDownDown, From: "a2", To: "c4"}}, snap.Arrows)
	s.Equal(10, snap.ReqPoints)

	frostbite, _ := data.Talent("Frost", "Frostbite")
	s.Empty(frostbite.Prereq)
	s.Nil(frostbite.Arrows)
}

func (s *BuildTestSuite) TestMissingTabsGroupByID() {
	s.payload.Tabs = nil
	data, err := talentgraph.Build(s.payload)
	s.Require().NoError(err)

	s.Contains(data, "Tab 61")
	s.Contains(data, "Tab 41")
	s.Contains(data, "Tab 409")
}

func (s *BuildTestSuite) TestUnknownSpellGetsSyntheticName() {
	s.payload.Talents = append(s.payload.Talents, rowfield.Row{"ID": 77, "TabID": fireTab, "SpellRank_1": 424242})
	data, err := talentgraph.Build(s.payload)
	s.Require().NoError(err)
	s.Contains(data["Fire"].Talents, "Talent_77")
	s.Equal("", data["Fire"].Talents["Talent_77"].Describe(1))
}

func (s *BuildTestSuite) TestRejectsFailedPayload() {
	_, err := talentgraph.Build(&talents.Payload{Error: "db down"})
	s.Error(err)
	s.True(errors.IsFailedPrecondition(err))

	_, err = talentgraph.Build(nil)
	s.True(errors.IsInvalidArgument(err))
}

func (s *BuildTestSuite) TestEmptyPayload() {
	data, err := talentgraph.Build(&talents.Payload{})
	s.Require().NoError(err)
	s.Empty(data)
}

func (s *BuildTestSuite) TestDeterministic() {
	first, err := talentgraph.Build(s.payload)
	s.Require().NoError(err)
	second, err := talentgraph.Build(s.payload)
	s.Require().NoError(err)

	a, err := json.Marshal(first)
	s.Require().NoError(err)
	b, err := json.Marshal(second)
	s.Require().NoError(err)
	s.JSONEq(string(a), string(b))

	for _, tree := range first {
		for name, tal := range tree.Talents {
			other := second[tree.Name].Talents[name]
			for rank := 1; rank <= tal.MaxRank; rank++ {
				s.Equal(tal.Describe(rank), other.Describe(rank))
			}
		}
	}
}

func (s *BuildTestSuite) staticMage() talents.TalentData {
	return talents.TalentData{
		"Arcane": {Name: "Arcane", Background: "arcane.jpg", Icon: "arcane-icon.jpg", Order: 0, Talents: map[string]*talents.Talent{}},
		"Fire": {Name: "Fire", Background: "fire.jpg", Icon: "fire-icon.jpg", Order: 1, Talents: map[string]*talents.Talent{
			"Improved Fireball": {Name: "Improved Fireball", Pos: "a1", Icon: "static-fireball.jpg", MaxRank: 5},
		}},
		"Frost": {Name: "Frost", Background: "frost.jpg", Icon: "frost-icon.jpg", Order: 2, Talents: map[string]*talents.Talent{
			"Frostbite": {Name: "Frostbite", Pos: "a2", MaxRank: 3},
		}},
	}
}

func (s *BuildTestSuite) TestLivePolicyMergesStaticVisuals() {
	data, err := talentgraph.Build(s.payload, talentgraph.WithStatic(s.staticMage()))
	s.Require().NoError(err)

	s.Equal([]string{"Arcane", "Fire", "Frost"}, data.Names())
	s.Empty(data["Arcane"].Talents)
	s.Equal("arcane.jpg", data["Arcane"].Background)
	s.Equal("frost.jpg", data["Frost"].Background)
	// live icon wins over static
	s.Equal("https://example.test/fire.jpg", data["Fire"].Icon)
	// live talents outside the whitelist are kept
	s.Contains(data["Frost"].Talents, "Cold Snap")

	fireball := data["Fire"].Talents["Improved Fireball"]
	s.Equal("static-fireball.jpg", fireball.Icon)
}

func (s *BuildTestSuite) TestWhitelistPolicy() {
	data, err := talentgraph.Build(s.payload,
		talentgraph.WithStatic(s.staticMage()),
		talentgraph.WithPolicy(talentgraph.PolicyWhitelist),
	)
	s.Require().NoError(err)

	s.Equal([]string{"Arcane", "Fire", "Frost"}, data.Names())
	s.Equal([]string{"Frostbite"}, keys(data["Frost"].Talents))
	s.Equal([]string{"Improved Fireball"}, keys(data["Fire"].Talents))
	s.Equal("frost-icon.jpg", data["Frost"].Icon)
}

func keys(m map[string]*talents.Talent) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestBuildSuite(t *testing.T) {
	suite.Run(t, new(BuildTestSuite))
}
