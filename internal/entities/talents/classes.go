package talents

import "strings"

// Point budget of a max level character.
const (
	TotalPoints     = 51
	FirstPointLevel = 10
	PointsPerTier   = 5
)

// Class is a playable class and its bit in DBC class masks.
type Class struct {
	Name string
	Mask int
}

// Classes lists the playable classes in menu order.
var Classes = []Class{
	{Name: "Druid", Mask: 1024},
	{Name: "Hunter", Mask: 4},
	{Name: "Mage", Mask: 128},
	{Name: "Paladin", Mask: 2},
	{Name: "Priest", Mask: 16},
	{Name: "Rogue", Mask: 8},
	{Name: "Shaman", Mask: 64},
	{Name: "Warlock", Mask: 256},
	{Name: "Warrior", Mask: 1},
	{Name: "DeathKnight", Mask: 32},
}

// ClassByName resolves a class selector case-insensitively, ignoring
// spaces, dashes and underscores ("death knight" == "DeathKnight").
func ClassByName(name string) (Class, bool) {
	key := classKey(name)
	if key == "" {
		return Class{}, false
	}
	for _, c := range Classes {
		if classKey(c.Name) == key {
			return c, true
		}
	}
	return Class{}, false
}

func classKey(name string) string {
	r := strings.NewReplacer(" ", "", "-", "", "_", "")
	return strings.ToLower(r.Replace(strings.TrimSpace(name)))
}

// RequiredLevel is the character level needed to have spent the given
// number of points, or 0 when nothing is spent.
func RequiredLevel(pointsSpent int) int {
	if pointsSpent <= 0 {
		return 0
	}
	return pointsSpent + FirstPointLevel - 1
}

// RequiredPoints is the number of points that must be spent in a tree
// before a talent on tier can be learned.
func RequiredPoints(tier int) int {
	if tier < 0 {
		tier = 0
	}
	return tier * PointsPerTier
}
