package camera

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/configurator/pkg/types"
)

const frame = time.Second / 60

func newTestAnimator(opts ...Option) (*Animator, *types.CameraPose) {
	pose := presetPoses[types.PresetOverview]
	return New(&pose, opts...), &pose
}

func TestEaseInOutCubic(t *testing.T) {
	assert.Equal(t, 0.0, EaseInOutCubic(0))
	assert.Equal(t, 1.0, EaseInOutCubic(1))
	assert.InDelta(t, 0.5, EaseInOutCubic(0.5), 1e-12)
	assert.Equal(t, 0.0, EaseInOutCubic(-1))
	assert.Equal(t, 1.0, EaseInOutCubic(2))

	// Slow start and slow finish compared to linear.
	assert.Less(t, EaseInOutCubic(0.1), 0.1)
	assert.Greater(t, EaseInOutCubic(0.9), 0.9)
}

func TestEaseInOutCubicIsMonotonic(t *testing.T) {
	prev := EaseInOutCubic(0)
	for i := 1; i <= 1000; i++ {
		v := EaseInOutCubic(float64(i) / 1000)
		assert.GreaterOrEqual(t, v, prev)
		prev = v
	}
}

func TestEaseInOutCubicIsSmooth(t *testing.T) {
	const h = 1e-6
	slope := func(t float64) float64 {
		return (EaseInOutCubic(t+h) - EaseInOutCubic(t-h)) / (2 * h)
	}
	// Matching slopes on both sides of the midpoint.
	left := (EaseInOutCubic(0.5) - EaseInOutCubic(0.5-h)) / h
	right := (EaseInOutCubic(0.5+h) - EaseInOutCubic(0.5)) / h
	assert.InDelta(t, left, right, 1e-4)
	assert.InDelta(t, 3.0, slope(0.5), 1e-4)

	// Zero velocity at both ends.
	assert.InDelta(t, 0, (EaseInOutCubic(h)-EaseInOutCubic(0))/h, 1e-6)
	assert.InDelta(t, 0, (EaseInOutCubic(1)-EaseInOutCubic(1-h))/h, 1e-6)
}

func TestPresetPoses(t *testing.T) {
	tests := []struct {
		name     string
		position mgl64.Vec3
		lookAt   mgl64.Vec3
	}{
		{"overview", mgl64.Vec3{5, 2, 5}, mgl64.Vec3{0, 0, 0}},
		{"front", mgl64.Vec3{3, 1, 2}, mgl64.Vec3{2, 0, 0}},
		{"rear", mgl64.Vec3{-3, 1, 2}, mgl64.Vec3{-1.5, 0, 0}},
		{"side", mgl64.Vec3{0, 0.5, 6}, mgl64.Vec3{0, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pose, _, ok := PresetPose(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.position, pose.Position)
			assert.Equal(t, tt.lookAt, pose.LookAt)
		})
	}
}

func TestSetPresetReachesTarget(t *testing.T) {
	a, pose := newTestAnimator()
	a.SetPreset("front")
	require.True(t, a.Active())

	for i := 0; i < 80; i++ {
		a.Tick(frame)
	}

	assert.False(t, a.Active())
	assert.Equal(t, presetPoses[types.PresetFront], *pose)
}

func TestSetPresetEasesBothPositionAndLookAt(t *testing.T) {
	a, pose := newTestAnimator()
	start := *pose
	a.SetPreset("rear")
	target := presetPoses[types.PresetRear]

	a.Tick(DefaultDuration / 2)
	assert.True(t, pose.Position.ApproxEqualThreshold(lerp(start.Position, target.Position, 0.5), 1e-9))
	assert.True(t, pose.LookAt.ApproxEqualThreshold(lerp(start.LookAt, target.LookAt, 0.5), 1e-9))

	a.Tick(DefaultDuration / 4)
	e := EaseInOutCubic(0.75)
	assert.True(t, pose.Position.ApproxEqualThreshold(lerp(start.Position, target.Position, e), 1e-9))
	assert.True(t, pose.LookAt.ApproxEqualThreshold(lerp(start.LookAt, target.LookAt, e), 1e-9))
}

func TestNewPresetCancelsMoveInFlight(t *testing.T) {
	a, pose := newTestAnimator()
	a.SetPreset("front")
	for i := 0; i < 30; i++ {
		a.Tick(frame)
	}
	midway := *pose
	require.NotEqual(t, presetPoses[types.PresetFront], midway)

	a.SetPreset("side")
	side := presetPoses[types.PresetSide]

	// The new move starts from the interrupted pose.
	a.Tick(0)
	assert.Equal(t, midway, *pose)

	prevPos := pose.Position.Sub(side.Position).Len()
	prevLook := pose.LookAt.Sub(side.LookAt).Len()
	var elapsed time.Duration
	for a.Active() {
		a.Tick(frame)
		elapsed += frame
		pos := pose.Position.Sub(side.Position).Len()
		look := pose.LookAt.Sub(side.LookAt).Len()
		assert.LessOrEqual(t, pos, prevPos+1e-12, "camera moved away from side")
		assert.LessOrEqual(t, look, prevLook+1e-12, "look-at moved away from side")
		prevPos, prevLook = pos, look
	}

	assert.GreaterOrEqual(t, elapsed, DefaultDuration)
	assert.Equal(t, side, *pose)

	// Nothing pulls the camera back towards front afterwards.
	a.Tick(time.Second)
	assert.Equal(t, side, *pose)
}

func TestUnknownPresetFallsBackToOverview(t *testing.T) {
	a, pose := newTestAnimator()
	a.SetPreset("side")
	a.Tick(DefaultDuration)

	got := a.SetPreset("top-down")
	assert.Equal(t, types.PresetOverview, got)
	assert.True(t, a.Active(), "an unknown preset still moves the camera")

	a.Tick(DefaultDuration)
	assert.Equal(t, presetPoses[types.PresetOverview], *pose)
}

func TestTickWhileIdle(t *testing.T) {
	updates := 0
	a, pose := newTestAnimator(WithOnUpdate(func(types.CameraPose) { updates++ }))
	before := *pose

	assert.Equal(t, before, a.Tick(frame))
	assert.Equal(t, 0, updates)
	assert.Equal(t, 1.0, a.Progress())
	assert.Equal(t, before, a.Target())
}

func TestOnUpdateAndProgress(t *testing.T) {
	var last types.CameraPose
	updates := 0
	a, _ := newTestAnimator(
		WithDuration(time.Second),
		WithOnUpdate(func(p types.CameraPose) {
			updates++
			last = p
		}),
	)
	assert.Equal(t, time.Second, a.Duration())

	a.SetPreset("front")
	assert.Equal(t, presetPoses[types.PresetFront], a.Target())
	assert.Equal(t, types.PresetFront, a.Preset())

	a.Tick(250 * time.Millisecond)
	assert.InDelta(t, 0.25, a.Progress(), 1e-12)
	a.Tick(time.Second)

	assert.Equal(t, 2, updates)
	assert.Equal(t, presetPoses[types.PresetFront], last)
	assert.Equal(t, a.Pose(), last)
}

func TestWithDurationIgnoresNonPositive(t *testing.T) {
	a, _ := newTestAnimator(WithDuration(0))
	assert.Equal(t, DefaultDuration, a.Duration())
}
