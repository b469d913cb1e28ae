// Package camera animates the viewer camera between named presets.
//
// The animator is sampled once per rendered frame with the frame's elapsed
// time. Starting a new preset while a move is in flight replaces it: the new
// move begins from wherever the camera is at that moment. An Animator is not
// safe for concurrent use.
package camera

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/mesh-intelligence/configurator/pkg/types"
)

// DefaultDuration is the length of a preset move.
const DefaultDuration = types.DefaultCameraDuration

// Option configures an Animator.
type Option func(*Animator)

// WithDuration sets the length of a preset move. Non-positive values are
// ignored.
func WithDuration(d time.Duration) Option {
	return func(a *Animator) {
		if d > 0 {
			a.duration = d
		}
	}
}

// WithOnUpdate sets a hook called with the new pose after every tick that
// moved the camera, the way orbit controls are refreshed.
func WithOnUpdate(fn func(types.CameraPose)) Option {
	return func(a *Animator) { a.onUpdate = fn }
}

// tween is one in-flight move.
type tween struct {
	from    types.CameraPose
	to      types.CameraPose
	elapsed time.Duration
}

// Animator owns the interpolation state and writes into the camera pose it
// was given.
type Animator struct {
	camera   *types.CameraPose
	duration time.Duration
	onUpdate func(types.CameraPose)

	preset types.CameraPreset
	active *tween
}

// New returns an animator driving camera. The camera is not moved until a
// preset is set.
func New(camera *types.CameraPose, opts ...Option) *Animator {
	a := &Animator{
		camera:   camera,
		duration: DefaultDuration,
		preset:   types.PresetOverview,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SetPreset starts a move to the named preset, cancelling any move in
// flight. Unknown names move to the overview preset. It returns the preset
// actually used.
func (a *Animator) SetPreset(name string) types.CameraPreset {
	to, preset, _ := PresetPose(name)
	a.preset = preset
	a.active = &tween{from: *a.camera, to: to}
	return preset
}

// Tick advances the move in flight by dt and returns the camera pose. Once
// the move has run its full duration the camera rests exactly on the
// target and the animator goes idle.
func (a *Animator) Tick(dt time.Duration) types.CameraPose {
	if a.active == nil {
		return *a.camera
	}
	if dt > 0 {
		a.active.elapsed += dt
	}

	t := float64(a.active.elapsed) / float64(a.duration)
	if t >= 1 {
		*a.camera = a.active.to
		a.active = nil
	} else {
		e := EaseInOutCubic(t)
		a.camera.Position = lerp(a.active.from.Position, a.active.to.Position, e)
		a.camera.LookAt = lerp(a.active.from.LookAt, a.active.to.LookAt, e)
	}

	if a.onUpdate != nil {
		a.onUpdate(*a.camera)
	}
	return *a.camera
}

// Active reports whether a move is in flight.
func (a *Animator) Active() bool { return a.active != nil }

// Pose returns the current camera pose.
func (a *Animator) Pose() types.CameraPose { return *a.camera }

// Preset returns the most recently requested preset.
func (a *Animator) Preset() types.CameraPreset { return a.preset }

// Target returns the pose the camera is moving to, or its current pose
// when idle.
func (a *Animator) Target() types.CameraPose {
	if a.active == nil {
		return *a.camera
	}
	return a.active.to
}

// Progress returns the normalized time of the move in flight, or 1 when
// idle.
func (a *Animator) Progress() float64 {
	if a.active == nil {
		return 1
	}
	return float64(a.active.elapsed) / float64(a.duration)
}

// Duration returns the length of a preset move.
func (a *Animator) Duration() time.Duration { return a.duration }

func lerp(from, to mgl64.Vec3, t float64) mgl64.Vec3 {
	return from.Add(to.Sub(from).Mul(t))
}
