package talents_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KirkDiggler/talent-api/internal/entities/talents"
)

func TestPosition_Coords(t *testing.T) {
	row, col, ok := talents.Position("c4").Coords()
	assert.True(t, ok)
	assert.Equal(t, 3, row)
	assert.Equal(t, 4, col)

	_, _, ok = talents.Position("4c").Coords()
	assert.False(t, ok)

	_, _, ok = talents.Position("a").Coords()
	assert.False(t, ok)
}

func TestTalentData_Names(t *testing.T) {
	data := talents.TalentData{
		"Frost":  {Name: "Frost", Order: 2},
		"Arcane": {Name: "Arcane", Order: 0},
		"Fire":   {Name: "Fire", Order: 1},
	}
	assert.Equal(t, []string{"Arcane", "Fire", "Frost"}, data.Names())
}

func TestTalentData_Talent(t *testing.T) {
	data := talents.TalentData{
		"Arcane": {Name: "Arcane", Talents: map[string]*talents.Talent{
			"Arcane Focus": {Name: "Arcane Focus"},
		}},
	}

	tal, ok := data.Talent("Arcane", "Arcane Focus")
	assert.True(t, ok)
	assert.Equal(t, "Arcane Focus", tal.Name)

	_, ok = data.Talent("Fire", "Arcane Focus")
	assert.False(t, ok)
}

func TestTalent_DescribeWithoutText(t *testing.T) {
	var nilTalent *talents.Talent
	assert.Equal(t, "", nilTalent.Describe(1))
	assert.Equal(t, "", (&talents.Talent{}).HeaderFor(1))
}

func TestClassByName(t *testing.T) {
	c, ok := talents.ClassByName("death knight")
	assert.True(t, ok)
	assert.Equal(t, 32, c.Mask)

	c, ok = talents.ClassByName("MAGE")
	assert.True(t, ok)
	assert.Equal(t, "Mage", c.Name)

	_, ok = talents.ClassByName("bard")
	assert.False(t, ok)

	_, ok = talents.ClassByName("  ")
	assert.False(t, ok)
}

func TestRequiredLevelAndPoints(t *testing.T) {
	assert.Equal(t, 0, talents.RequiredLevel(0))
	assert.Equal(t, 10, talents.RequiredLevel(1))
	assert.Equal(t, 60, talents.RequiredLevel(51))
	assert.Equal(t, 0, talents.RequiredPoints(-1))
	assert.Equal(t, 15, talents.RequiredPoints(3))
}
