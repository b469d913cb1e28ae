package camera

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/mesh-intelligence/configurator/pkg/types"
)

var presetPoses = map[types.CameraPreset]types.CameraPose{
	types.PresetOverview: {Position: mgl64.Vec3{5, 2, 5}, LookAt: mgl64.Vec3{0, 0, 0}},
	types.PresetFront:    {Position: mgl64.Vec3{3, 1, 2}, LookAt: mgl64.Vec3{2, 0, 0}},
	types.PresetRear:     {Position: mgl64.Vec3{-3, 1, 2}, LookAt: mgl64.Vec3{-1.5, 0, 0}},
	types.PresetSide:     {Position: mgl64.Vec3{0, 0.5, 6}, LookAt: mgl64.Vec3{0, 0, 0}},
}

// PresetPose returns the target pose of the named preset. Unknown names
// resolve to the overview pose; ok reports whether the name was known.
func PresetPose(name string) (pose types.CameraPose, preset types.CameraPreset, ok bool) {
	preset, ok = types.ParsePreset(name)
	return presetPoses[preset], preset, ok
}
