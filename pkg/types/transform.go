package types

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// TransformMode selects which gizmo handle is shown.
type TransformMode int

// Transform modes.
const (
	ModeTranslate TransformMode = iota
	ModeRotate
	ModeScale
)

var transformModeNames = map[TransformMode]string{
	ModeTranslate: "translate",
	ModeRotate:    "rotate",
	ModeScale:     "scale",
}

func (m TransformMode) String() string {
	if name, ok := transformModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("TransformMode(%d)", int(m))
}

// MarshalText encodes the mode by name.
func (m TransformMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// ParseTransformMode returns the mode with the given name.
func ParseTransformMode(name string) (TransformMode, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for m, n := range transformModeNames {
		if n == name {
			return m, true
		}
	}
	return ModeTranslate, false
}

// IdentityScale is the scale of an untouched part.
var IdentityScale = mgl64.Vec3{1, 1, 1}

// Transform is the live placement of a part in scene space.
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Vec3 // euler angles, radians
	Scale    mgl64.Vec3
}

// TransformDelta is a transform expressed relative to a category anchor, in
// the rounded form that is reported to the user.
type TransformDelta struct {
	Offset   mgl64.Vec3 `json:"offset"`
	Rotation mgl64.Vec3 `json:"rotation"`
	Scale    mgl64.Vec3 `json:"scale"`
}

// Decimal places used when reporting a delta.
const (
	OffsetPrecision   = 3
	RotationPrecision = 3
	ScalePrecision    = 5
)

// RoundVec rounds every component of v to the given number of decimal
// places. Negative zero is normalized to zero.
func RoundVec(v mgl64.Vec3, places int) mgl64.Vec3 {
	p := math.Pow10(places)
	var out mgl64.Vec3
	for i := range v {
		r := math.Round(v[i]*p) / p
		if r == 0 {
			r = 0
		}
		out[i] = r
	}
	return out
}

// TransformOverride is a committed delta persisted for a catalog part.
type TransformOverride struct {
	OverrideID string         `json:"override_id"`
	Category   Category       `json:"category"`
	PartID     string         `json:"part_id"`
	Delta      TransformDelta `json:"delta"`
	CreatedAt  time.Time      `json:"created_at"`
}
