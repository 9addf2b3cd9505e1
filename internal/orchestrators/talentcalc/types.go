package talentcalc

import (
	"github.com/KirkDiggler/talent-api/internal/entities/talents"
)

// ClassInfo describes a selectable class.
type ClassInfo struct {
	Name string
	Mask int
	// HasFallback is set when the class ships a bundled dataset.
	HasFallback bool
}

// ListClassesInput is empty; every class is listed.
type ListClassesInput struct{}

// ListClassesOutput lists classes in menu order.
type ListClassesOutput struct {
	Classes []ClassInfo
}

// GetTalentTreesInput selects a class.
type GetTalentTreesInput struct {
	Class string
}

// GetTalentTreesOutput carries the class's trees in display order.
type GetTalentTreesOutput struct {
	Class string
	Trees []*talents.Tree
	// Source is the metrics result the trees came from: live, snapshot or static.
	Source string
	// IsFallback is set whenever the trees did not come from a fresh live build.
	IsFallback bool
	// Warning explains why a fallback was used.
	Warning         string
	TotalPoints     int
	FirstPointLevel int
}

// GetTalentDescriptionInput selects one rank of one talent.
type GetTalentDescriptionInput struct {
	Class  string
	Tree   string
	Talent string
	// Rank is 1-based; out of range values are clamped.
	Rank int
}

// GetTalentDescriptionOutput is the resolved tooltip of a rank.
type GetTalentDescriptionOutput struct {
	Name        string
	Rank        int
	MaxRank     int
	Header      string
	Description string
}

// InvalidateInput drops cached trees; an empty class drops all of them.
type InvalidateInput struct {
	Class string
}

// InvalidateOutput reports how many cached classes were dropped.
type InvalidateOutput struct {
	Dropped int
}
