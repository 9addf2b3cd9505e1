// Package fallback serves the hand-authored talent trees bundled with the
// binary. They back the calculator whenever live data is unavailable and
// supply tree artwork the live source does not carry.
package fallback

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/talent-api/internal/engine/talentgraph"
	"github.com/KirkDiggler/talent-api/internal/entities/talents"
	"github.com/KirkDiggler/talent-api/internal/errors"
)

//go:embed data/*.yaml
var embedded embed.FS

type classFile struct {
	Class string     `yaml:"class"`
	Trees []treeFile `yaml:"trees"`
}

type treeFile struct {
	Name       string       `yaml:"name"`
	Background string       `yaml:"background"`
	Icon       string       `yaml:"icon"`
	Talents    []talentFile `yaml:"talents"`
}

type talentFile struct {
	Name         string           `yaml:"name"`
	Pos          talents.Position `yaml:"pos"`
	Icon         string           `yaml:"icon"`
	Prereq       string           `yaml:"prereq"`
	Descriptions []string         `yaml:"descriptions"`
}

// Visual is the artwork of one tree.
type Visual struct {
	Background string `json:"background"`
	Icon       string `json:"icon"`
}

// Dataset holds the bundled trees of every class that ships one.
type Dataset struct {
	classes map[string]*classFile
}

// Load parses the datasets compiled into the binary.
func Load() (*Dataset, error) {
	return LoadFS(embedded, "data")
}

// LoadFS parses every *.yaml class file in dir.
func LoadFS(fsys fs.FS, dir string) (*Dataset, error) {
	files, err := fs.Glob(fsys, path.Join(dir, "*.yaml"))
	if err != nil {
		return nil, errors.Wrap(err, "failed to list fallback datasets")
	}

	ds := &Dataset{classes: make(map[string]*classFile, len(files))}
	for _, name := range files {
		raw, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", name)
		}
		var cf classFile
		if err := yaml.Unmarshal(raw, &cf); err != nil {
			return nil, errors.WrapWithCodef(err, errors.CodeDataLoss, "failed to parse %s", name)
		}
		if err := cf.validate(); err != nil {
			return nil, errors.Wrapf(err, "invalid dataset %s", name)
		}
		ds.classes[classKey(cf.Class)] = &cf
	}

	slog.Debug("Loaded fallback talent datasets", "classes", len(ds.classes))
	return ds, nil
}

func (cf *classFile) validate() error {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("class", cf.Class, vb)

	seen := make(map[string]string)
	for i, tree := range cf.Trees {
		errors.ValidateRequired(fmt.Sprintf("trees[%d].name", i), tree.Name, vb)
		for j, t := range tree.Talents {
			field := fmt.Sprintf("trees[%d].talents[%d]", i, j)
			errors.ValidateRequired(field+".name", t.Name, vb)
			if _, _, ok := t.Pos.Coords(); !ok {
				vb.InvalidField(field+".pos", fmt.Sprintf("bad grid position %q", t.Pos))
			}
			if len(t.Descriptions) == 0 {
				vb.InvalidField(field+".descriptions", "at least one rank is required")
			}
			if other, dup := seen[t.Name]; dup {
				vb.InvalidField(field+".name", fmt.Sprintf("%q already defined in %s", t.Name, other))
			}
			seen[t.Name] = tree.Name
		}
	}
	return vb.Build()
}

func classKey(name string) string {
	if c, ok := talents.ClassByName(name); ok {
		return c.Name
	}
	return strings.TrimSpace(name)
}

// Classes lists the classes with a bundled dataset.
func (d *Dataset) Classes() []string {
	out := make([]string, 0, len(d.classes))
	for name := range d.classes {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Has reports whether class ships a bundled dataset.
func (d *Dataset) Has(class string) bool {
	_, ok := d.classes[classKey(class)]
	return ok
}

// Class materializes the bundled trees of class. Each call returns a fresh
// copy the caller may keep.
func (d *Dataset) Class(class string) (talents.TalentData, bool) {
	cf, ok := d.classes[classKey(class)]
	if !ok {
		return nil, false
	}

	out := make(talents.TalentData, len(cf.Trees))
	for order, tf := range cf.Trees {
		tree := &talents.Tree{
			Name:       tf.Name,
			Background: tf.Background,
			Icon:       iconURL(tf.Icon),
			Order:      order,
			Talents:    make(map[string]*talents.Talent, len(tf.Talents)),
		}
		for _, t := range tf.Talents {
			tree.Talents[t.Name] = t.talent()
		}
		linkPrereqs(tree)
		out[tf.Name] = tree
	}
	return out, true
}

func (t talentFile) talent() *talents.Talent {
	row, _, _ := t.Pos.Coords()
	descriptions := t.Descriptions
	return &talents.Talent{
		Name:      t.Name,
		Pos:       t.Pos,
		Icon:      iconURL(t.Icon),
		MaxRank:   len(descriptions),
		ReqPoints: talents.RequiredPoints(row - 1),
		Prereq:    t.Prereq,
		Description: func(rank int) string {
			rank = min(max(rank, 1), len(descriptions))
			return descriptions[rank-1]
		},
	}
}

func linkPrereqs(tree *talents.Tree) {
	for _, t := range tree.Talents {
		if t.Prereq == "" {
			continue
		}
		pre, ok := tree.Talents[t.Prereq]
		if !ok {
			slog.Warn("Fallback prerequisite not found in tree",
				"tree", tree.Name,
				"talent", t.Name,
				"prereq", t.Prereq)
			t.Prereq = ""
			continue
		}
		t.Arrows = []talents.Arrow{talentgraph.NewArrow(pre.Pos, t.Pos)}
	}
}

// iconURL expands a bare icon name; full URLs pass through.
func iconURL(icon string) string {
	if icon == "" || strings.Contains(icon, "://") {
		return icon
	}
	return talentgraph.IconURL(icon)
}

// Visuals extracts tree artwork from a dataset.
func Visuals(data talents.TalentData) map[string]Visual {
	out := make(map[string]Visual, len(data))
	for name, tree := range data {
		if tree == nil {
			continue
		}
		out[name] = Visual{Background: tree.Background, Icon: tree.Icon}
	}
	return out
}
