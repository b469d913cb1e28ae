package types

import (
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// CameraPreset names a predefined camera viewpoint.
type CameraPreset string

// Camera presets.
const (
	PresetOverview CameraPreset = "overview"
	PresetFront    CameraPreset = "front"
	PresetRear     CameraPreset = "rear"
	PresetSide     CameraPreset = "side"
)

// Presets lists the camera presets in the order they are offered.
var Presets = []CameraPreset{PresetOverview, PresetFront, PresetRear, PresetSide}

// ParsePreset resolves a preset by name, ignoring case and surrounding space.
func ParsePreset(name string) (CameraPreset, bool) {
	p := CameraPreset(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Presets {
		if p == known {
			return p, true
		}
	}
	return PresetOverview, false
}

// CameraPose is the camera eye position and the point it looks at.
type CameraPose struct {
	Position mgl64.Vec3 `json:"position"`
	LookAt   mgl64.Vec3 `json:"look_at"`
}
