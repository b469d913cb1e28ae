package script

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/mesh-intelligence/configurator/pkg/types"
)

// gizmo stands in for the on-screen transform handle. A drag changes the
// component selected by the attached mode and reports the whole transform.
type gizmo struct {
	attached bool
	target   types.Transform
	mode     types.TransformMode
	onChange func(types.Transform)
}

func (g *gizmo) Attach(target types.Transform, mode types.TransformMode, onChange func(types.Transform)) {
	g.attached = true
	g.target = target
	g.mode = mode
	g.onChange = onChange
}

func (g *gizmo) Detach() {
	g.attached = false
	g.onChange = nil
}

// drag moves the handle component of the current mode to v.
func (g *gizmo) drag(v mgl64.Vec3) bool {
	if !g.attached {
		return false
	}
	switch g.mode {
	case types.ModeRotate:
		g.target.Rotation = v
	case types.ModeScale:
		g.target.Scale = v
	default:
		g.target.Position = v
	}
	g.onChange(g.target)
	return true
}

// set replaces the whole transform.
func (g *gizmo) set(t types.Transform) bool {
	if !g.attached {
		return false
	}
	g.target = t
	g.onChange(g.target)
	return true
}
