package types

import "github.com/go-gl/mathgl/mgl64"

// Category identifies both a catalog slot and an anchor. The zero value
// means no category.
type Category string

// Known part categories. The set is open: catalogs may introduce others.
const (
	CategoryNone      Category = ""
	CategoryBarrel    Category = "barrel"
	CategoryHandguard Category = "handguard"
	CategoryStock     Category = "stock"
	CategoryGrip      Category = "grip"
	CategoryOptic     Category = "optic"
)

// KnownCategories lists the built-in categories in display order.
var KnownCategories = []Category{
	CategoryBarrel,
	CategoryHandguard,
	CategoryStock,
	CategoryGrip,
	CategoryOptic,
}

// IsNone reports whether c is the empty category.
func (c Category) IsNone() bool { return c == CategoryNone }

// PartDefinition is an immutable catalog record. Offset, Rotation and Scale
// are optional override fields; nil means the field is absent.
type PartDefinition struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Model       string      `json:"model"`
	Offset      *mgl64.Vec3 `json:"offset,omitempty"`
	Rotation    *mgl64.Vec3 `json:"rotation,omitempty"` // radians
	Scale       *mgl64.Vec3 `json:"scale,omitempty"`
}

// HasOverride reports whether the part carries any transform override field.
func (p PartDefinition) HasOverride() bool {
	return p.Offset != nil || p.Rotation != nil || p.Scale != nil
}

// WithOverride returns a copy of p whose override fields are replaced by d.
func (p PartDefinition) WithOverride(d TransformDelta) PartDefinition {
	offset, rotation, scale := d.Offset, d.Rotation, d.Scale
	p.Offset = &offset
	p.Rotation = &rotation
	p.Scale = &scale
	return p
}

// Placement returns the transform of part mounted at anchor: the anchor
// moved by the part's offset, its rotation, and its scale or identity.
func (p PartDefinition) Placement(anchor mgl64.Vec3) Transform {
	t := Transform{Position: anchor, Scale: IdentityScale}
	if p.Offset != nil {
		t.Position = t.Position.Add(*p.Offset)
	}
	if p.Rotation != nil {
		t.Rotation = *p.Rotation
	}
	if p.Scale != nil {
		t.Scale = *p.Scale
	}
	return t
}
