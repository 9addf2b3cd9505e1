package v1alpha1

import (
	"encoding/json"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/talent-api/internal/engine/talentgraph"
	"github.com/KirkDiggler/talent-api/internal/entities/talents"
	"github.com/KirkDiggler/talent-api/internal/errors"
	"github.com/KirkDiggler/talent-api/internal/orchestrators/talentcalc"
)

// ClassesRequest is the ListClasses request.
type ClassesRequest struct{}

// Class is one listed class.
type Class struct {
	Name        string `json:"name"`
	Mask        int    `json:"mask"`
	HasFallback bool   `json:"has_fallback"`
}

// ClassesResponse is the ListClasses response.
type ClassesResponse struct {
	Classes []Class `json:"classes"`
}

// TreesRequest is the GetTalentTrees request.
type TreesRequest struct {
	Class string `json:"class"`
}

// Arrow is a prerequisite arrow with its CSS grid placement.
type Arrow struct {
	Dir      string `json:"dir"`
	From     string `json:"from"`
	To       string `json:"to"`
	GridArea string `json:"grid_area"`
}

// Talent is a talent node without its descriptions. RequiredLevel is the
// character level at which its tier opens.
type Talent struct {
	Name          string  `json:"name"`
	Pos           string  `json:"pos"`
	Icon          string  `json:"icon"`
	MaxRank       int     `json:"max_rank"`
	ReqPoints     int     `json:"req_points"`
	RequiredLevel int     `json:"required_level"`
	Prereq        string  `json:"prereq,omitempty"`
	Arrows        []Arrow `json:"arrows,omitempty"`
}

// Tree is one talent tree.
type Tree struct {
	Name       string   `json:"name"`
	Background string   `json:"background"`
	Icon       string   `json:"icon"`
	Order      int      `json:"order"`
	Talents    []Talent `json:"talents"`
}

// TreesResponse is the GetTalentTrees response.
type TreesResponse struct {
	Class           string `json:"class"`
	Trees           []Tree `json:"trees"`
	Source          string `json:"source"`
	IsFallback      bool   `json:"is_fallback"`
	Warning         string `json:"warning,omitempty"`
	TotalPoints     int    `json:"total_points"`
	FirstPointLevel int    `json:"first_point_level"`
}

// DescriptionRequest is the GetTalentDescription request.
type DescriptionRequest struct {
	Class  string `json:"class"`
	Tree   string `json:"tree"`
	Talent string `json:"talent"`
	Rank   int    `json:"rank"`
}

// DescriptionResponse is the GetTalentDescription response.
type DescriptionResponse struct {
	Name        string `json:"name"`
	Rank        int    `json:"rank"`
	MaxRank     int    `json:"max_rank"`
	Header      string `json:"header"`
	Description string `json:"description"`
}

// InvalidateRequest is the Invalidate request. An empty class drops all.
type InvalidateRequest struct {
	Class string `json:"class,omitempty"`
}

// InvalidateResponse is the Invalidate response.
type InvalidateResponse struct {
	Dropped int `json:"dropped"`
}

// ToStruct encodes a wire type as a Struct.
func ToStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode message")
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, errors.Wrap(err, "failed to encode message")
	}
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode message")
	}
	return s, nil
}

// FromStruct decodes a Struct into a wire type.
func FromStruct(s *structpb.Struct, v any) error {
	if s == nil {
		s = &structpb.Struct{}
	}
	raw, err := protojson.Marshal(s)
	if err != nil {
		return errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to decode message")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to decode message")
	}
	return nil
}

func convertClasses(out *talentcalc.ListClassesOutput) *ClassesResponse {
	resp := &ClassesResponse{Classes: make([]Class, 0, len(out.Classes))}
	for _, c := range out.Classes {
		resp.Classes = append(resp.Classes, Class{Name: c.Name, Mask: c.Mask, HasFallback: c.HasFallback})
	}
	return resp
}

func convertTrees(out *talentcalc.GetTalentTreesOutput) *TreesResponse {
	resp := &TreesResponse{
		Class:           out.Class,
		Trees:           make([]Tree, 0, len(out.Trees)),
		Source:          out.Source,
		IsFallback:      out.IsFallback,
		Warning:         out.Warning,
		TotalPoints:     out.TotalPoints,
		FirstPointLevel: out.FirstPointLevel,
	}
	for _, t := range out.Trees {
		resp.Trees = append(resp.Trees, convertTree(t))
	}
	return resp
}

func convertTree(t *talents.Tree) Tree {
	tree := Tree{
		Name:       t.Name,
		Background: t.Background,
		Icon:       t.Icon,
		Order:      t.Order,
		Talents:    []Talent{},
	}
	for _, tal := range t.SortedTalents() {
		w := Talent{
			Name:          tal.Name,
			Pos:           string(tal.Pos),
			Icon:          tal.Icon,
			MaxRank:       tal.MaxRank,
			ReqPoints:     tal.ReqPoints,
			RequiredLevel: talents.RequiredLevel(tal.ReqPoints + 1),
			Prereq:        tal.Prereq,
		}
		for _, a := range tal.Arrows {
			w.Arrows = append(w.Arrows, Arrow{
				Dir:      string(a.Dir),
				From:     string(a.From),
				To:       string(a.To),
				GridArea: talentgraph.GridArea(a),
			})
		}
		tree.Talents = append(tree.Talents, w)
	}
	return tree
}
