package testutils

import (
	"github.com/KirkDiggler/talent-api/internal/entities/talents"
	"github.com/KirkDiggler/talent-api/internal/pkg/rowfield"
)

// Tab IDs used by MagePayload.
const (
	MageArcaneTab = 81
	MageFireTab   = 41
	MageFrostTab  = 61
	HunterPetTab  = 409
)

// MagePayload is a small live payload: two Mage tabs, a pet tab that must
// be filtered out, and enough spell data to exercise tooltip tokens.
func MagePayload() *talents.Payload {
	return &talents.Payload{
		Tabs: []rowfield.Row{
			{"ID": MageFireTab, "Name_Lang_enUS": "Fire", "ClassMask": 128, "OrderIndex": 1},
			{"ID": MageFrostTab, "Name_Lang_enUS": "Frost", "ClassMask": 128, "OrderIndex": 2, "TextureFilename": `Interface\Icons\Spell_Frost_FrostBolt02`},
			{"ID": HunterPetTab, "Name_Lang_enUS": "Ferocity", "ClassMask": 0, "PetTalentMask": 1},
		},
		Talents: []rowfield.Row{
			{"ID": 37, "TabID": MageFrostTab, "TierID": 1, "ColumnIndex": 1, "SpellRank_1": 11071, "SpellRank_2": 12496, "SpellRank_3": 12497},
			{"ID": 38, "TabID": MageFrostTab, "TierID": 2, "ColumnIndex": 1, "SpellRank_1": 12472, "PrereqTalent_1": 37},
			{"ID": 40, "TabID": MageFireTab, "TierID": 0, "ColumnIndex": 1, "SpellRank_1": 11069},
			{"ID": 900, "TabID": HunterPetTab, "TierID": 0, "ColumnIndex": 0, "SpellRank_1": 61682},
		},
		Spells: []rowfield.Row{
			frostbite(11071, 5), frostbite(12496, 10), frostbite(12497, 15),
			{"ID": 12472, "Name_Lang_enUS": "Cold Snap", "Description_Lang_enUS": "Finishes the cooldown on all Frost spells.", "RecoveryTime": 480000},
			{"ID": 11069, "Name_Lang_enUS": "Improved Fireball", "Description_Lang_enUS": "Reduces the casting time of your Fireball spell by $/1000;$s1 sec.", "EffectBasePoints_1": 99, "IconUrl": "https://example.test/fireball.jpg"},
			{"ID": 61682, "Name_Lang_enUS": "Cobra Reflexes"},
		},
		Durations: []rowfield.Row{
			{"ID": 1, "Duration": 5000},
		},
	}
}

func frostbite(id int, chance int) rowfield.Row {
	return rowfield.Row{
		"ID":                    id,
		"Name_Lang_enUS":        "Frostbite",
		"Description_Lang_enUS": "Gives your Chill effects a $h% chance to freeze the target for $d.",
		"ProcChance":            chance,
		"DurationIndex":         1,
	}
}
