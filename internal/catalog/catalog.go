// Package catalog reads the part catalog: the ordered list of categories
// and, per category, the ordered parts a user can choose from.
//
// The document is JSON or YAML:
//
//	{"categories": {"barrel": {"name": "Barrels", "parts": [
//	    {"id": "b10", "name": "10.5\"", "description": "...", "model": "models/barrel_10.glb",
//	     "offset": [0, 0, 0], "rotation": [0, 0, 0], "scale": [1, 1, 1]}]}}}
//
// Document order of categories and parts is preserved.
package catalog

import (
	"fmt"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/configurator/pkg/types"
)

// Section is one category of the catalog.
type Section struct {
	Category types.Category
	Name     string
	Parts    []types.PartDefinition
}

// Catalog is an immutable, ordered part catalog.
type Catalog struct {
	sections []Section
	index    map[types.Category]int
}

type rawDocument struct {
	Categories yaml.Node `yaml:"categories"`
}

type rawSection struct {
	Name  string    `yaml:"name"`
	Parts []rawPart `yaml:"parts"`
}

type rawPart struct {
	ID          string    `yaml:"id"`
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Model       string    `yaml:"model"`
	Offset      []float64 `yaml:"offset"`
	Rotation    []float64 `yaml:"rotation"`
	Scale       []float64 `yaml:"scale"`
}

// Load reads and parses the catalog file at path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	cat, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing catalog %s: %w", path, err)
	}
	return cat, nil
}

// Parse parses a catalog document. Errors wrap ErrInvalidCatalog,
// ErrDuplicatePartID or ErrInvalidVector.
func Parse(data []byte) (*Catalog, error) {
	var doc rawDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidCatalog, err)
	}
	if doc.Categories.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: categories must be a mapping", types.ErrInvalidCatalog)
	}

	cat := &Catalog{index: make(map[types.Category]int)}
	nodes := doc.Categories.Content
	for i := 0; i+1 < len(nodes); i += 2 {
		key := types.Category(nodes[i].Value)
		if key.IsNone() {
			return nil, fmt.Errorf("%w: empty category key", types.ErrInvalidCatalog)
		}
		if _, dup := cat.index[key]; dup {
			return nil, fmt.Errorf("%w: category %q listed twice", types.ErrInvalidCatalog, key)
		}

		var raw rawSection
		if err := nodes[i+1].Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: category %q: %v", types.ErrInvalidCatalog, key, err)
		}
		sec, err := buildSection(key, raw)
		if err != nil {
			return nil, err
		}
		cat.index[key] = len(cat.sections)
		cat.sections = append(cat.sections, sec)
	}
	return cat, nil
}

func buildSection(c types.Category, raw rawSection) (Section, error) {
	sec := Section{Category: c, Name: raw.Name}
	if sec.Name == "" {
		sec.Name = string(c)
	}
	seen := make(map[string]bool, len(raw.Parts))
	for _, rp := range raw.Parts {
		if rp.ID == "" {
			return Section{}, fmt.Errorf("%w: category %q: part without id", types.ErrInvalidCatalog, c)
		}
		if seen[rp.ID] {
			return Section{}, fmt.Errorf("%w: %s/%s", types.ErrDuplicatePartID, c, rp.ID)
		}
		seen[rp.ID] = true

		part := types.PartDefinition{
			ID:          rp.ID,
			Name:        rp.Name,
			Description: rp.Description,
			Model:       rp.Model,
		}
		var err error
		if part.Offset, err = vector(rp.Offset); err != nil {
			return Section{}, fmt.Errorf("%s/%s offset: %w", c, rp.ID, err)
		}
		if part.Rotation, err = vector(rp.Rotation); err != nil {
			return Section{}, fmt.Errorf("%s/%s rotation: %w", c, rp.ID, err)
		}
		if part.Scale, err = vector(rp.Scale); err != nil {
			return Section{}, fmt.Errorf("%s/%s scale: %w", c, rp.ID, err)
		}
		sec.Parts = append(sec.Parts, part)
	}
	return sec, nil
}

func vector(v []float64) (*mgl64.Vec3, error) {
	if v == nil {
		return nil, nil
	}
	if len(v) != 3 {
		return nil, types.ErrInvalidVector
	}
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, types.ErrInvalidVector
		}
	}
	out := mgl64.Vec3{v[0], v[1], v[2]}
	return &out, nil
}

// Sections returns the categories in document order.
func (c *Catalog) Sections() []Section {
	out := make([]Section, len(c.sections))
	copy(out, c.sections)
	return out
}

// Categories returns the category keys in document order.
func (c *Catalog) Categories() []types.Category {
	out := make([]types.Category, len(c.sections))
	for i, s := range c.sections {
		out[i] = s.Category
	}
	return out
}

// Section returns the section of category cat.
func (c *Catalog) Section(cat types.Category) (Section, bool) {
	i, ok := c.index[cat]
	if !ok {
		return Section{}, false
	}
	return c.sections[i], true
}

// Part returns the part with the given id in category cat.
func (c *Catalog) Part(cat types.Category, id string) (types.PartDefinition, error) {
	sec, ok := c.Section(cat)
	if !ok {
		return types.PartDefinition{}, fmt.Errorf("%w: %q", types.ErrUnknownCategory, cat)
	}
	for _, p := range sec.Parts {
		if p.ID == id {
			return p, nil
		}
	}
	return types.PartDefinition{}, fmt.Errorf("%w: %s/%s", types.ErrUnknownPart, cat, id)
}

// PartCount returns the number of parts across all categories.
func (c *Catalog) PartCount() int {
	n := 0
	for _, s := range c.sections {
		n += len(s.Parts)
	}
	return n
}

// WithOverrides returns a copy of the catalog in which every part named by
// an override carries the committed delta as its override fields.
// Overrides for unknown parts are skipped.
func (c *Catalog) WithOverrides(overrides []types.TransformOverride) *Catalog {
	out := &Catalog{
		sections: make([]Section, len(c.sections)),
		index:    make(map[types.Category]int, len(c.index)),
	}
	for k, v := range c.index {
		out.index[k] = v
	}
	for i, s := range c.sections {
		parts := make([]types.PartDefinition, len(s.Parts))
		copy(parts, s.Parts)
		out.sections[i] = Section{Category: s.Category, Name: s.Name, Parts: parts}
	}

	for _, o := range overrides {
		i, ok := out.index[o.Category]
		if !ok {
			continue
		}
		parts := out.sections[i].Parts
		for j := range parts {
			if parts[j].ID == o.PartID {
				parts[j] = parts[j].WithOverride(o.Delta)
			}
		}
	}
	return out
}
