// Package anchor maps part categories to their fixed base positions on the
// receiver.
package anchor

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/mesh-intelligence/configurator/pkg/types"
)

// defaultAnchors are the receiver-relative mount points of the built-in
// categories.
var defaultAnchors = map[types.Category]mgl64.Vec3{
	types.CategoryBarrel:    {2.5, 0, 0},
	types.CategoryHandguard: {1.5, 0, 0},
	types.CategoryStock:     {-1.7, 0, 0},
	types.CategoryGrip:      {0.3, -0.7, 0},
	types.CategoryOptic:     {0.3, 0.6, 0},
}

// Table is an immutable category to anchor lookup. The zero value resolves
// every category to the origin.
type Table struct {
	anchors map[types.Category]mgl64.Vec3
}

// New returns a table holding a copy of anchors.
func New(anchors map[types.Category]mgl64.Vec3) Table {
	cp := make(map[types.Category]mgl64.Vec3, len(anchors))
	for c, v := range anchors {
		cp[c] = v
	}
	return Table{anchors: cp}
}

// Default returns the table of built-in anchors.
func Default() Table {
	return New(defaultAnchors)
}

// AnchorFor returns the anchor of category c, or the origin when c is not
// known to the table.
func (t Table) AnchorFor(c types.Category) mgl64.Vec3 {
	return t.anchors[c]
}

// Known reports whether the table has an anchor for c.
func (t Table) Known(c types.Category) bool {
	_, ok := t.anchors[c]
	return ok
}

// Categories returns the categories known to the table, sorted by name.
func (t Table) Categories() []types.Category {
	out := make([]types.Category, 0, len(t.anchors))
	for c := range t.anchors {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
