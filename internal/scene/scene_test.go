package scene

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/configurator/internal/anchor"
	"github.com/mesh-intelligence/configurator/internal/asset"
	"github.com/mesh-intelligence/configurator/internal/build"
	"github.com/mesh-intelligence/configurator/internal/camera"
	"github.com/mesh-intelligence/configurator/internal/edit"
	"github.com/mesh-intelligence/configurator/pkg/types"
)

// stubLoader loads every model except those listed as missing.
type stubLoader struct {
	missing map[string]bool
	calls   int
}

func (l *stubLoader) Load(model string) asset.Result {
	l.calls++
	if l.missing[model] {
		return asset.Failed(errors.New("no such file"))
	}
	size, color := asset.Geometry(model)
	return asset.Loaded(&asset.Node{Model: model, Size: size, Color: color})
}

type fixture struct {
	store    *build.Store
	session  *edit.Session
	animator *camera.Animator
	scene    *Scene
	loader   *stubLoader
	logs     *bytes.Buffer
}

func newFixture(t *testing.T, missing ...string) *fixture {
	t.Helper()
	f := &fixture{
		store:  build.NewStore(),
		loader: &stubLoader{missing: map[string]bool{}},
		logs:   &bytes.Buffer{},
	}
	for _, m := range missing {
		f.loader.missing[m] = true
	}
	anchors := anchor.Default()
	pose, _, _ := camera.PresetPose("overview")
	f.animator = camera.New(&pose)
	f.session = edit.NewSession(anchors, f.store)
	logger := slog.New(slog.NewTextHandler(f.logs, nil))
	f.scene = New(f.store, anchors, f.animator, f.loader, WithSession(f.session), WithLogger(logger))
	t.Cleanup(func() {
		f.scene.Close()
		f.session.Close()
	})
	return f
}

func TestRenderPlacesSelectedParts(t *testing.T) {
	f := newFixture(t)
	offset := mgl64.Vec3{0.25, 0, 0}
	f.store.Select(types.CategoryBarrel, types.PartDefinition{ID: "barrel-14", Model: "models/barrel_14.glb", Offset: &offset})
	f.store.Select(types.CategoryGrip, types.PartDefinition{ID: "a2", Model: "models/grip_a2.glb"})

	frame := f.scene.Render(0)
	require.Len(t, frame.Parts, 2)

	barrel := frame.Parts[0]
	assert.Equal(t, types.CategoryBarrel, barrel.Category)
	assert.Equal(t, mgl64.Vec3{2.75, 0, 0}, barrel.Transform.Position)
	assert.Equal(t, "#222", barrel.Node.Color)
	assert.Empty(t, barrel.Error)

	grip := frame.Parts[1]
	assert.Equal(t, mgl64.Vec3{0.3, -0.7, 0}, grip.Transform.Position)
	assert.Equal(t, types.IdentityScale, grip.Transform.Scale)
}

func TestMissingModelDrawsPlaceholder(t *testing.T) {
	f := newFixture(t, "models/optic_missing.glb")
	f.store.Select(types.CategoryOptic, types.PartDefinition{ID: "ghost", Model: "models/optic_missing.glb"})

	frame := f.scene.Render(0)
	require.Len(t, frame.Parts, 1)
	part := frame.Parts[0]
	assert.True(t, part.Node.Placeholder)
	assert.Equal(t, asset.ErrorColor, part.Node.Color)
	assert.Contains(t, part.Error, types.ErrAssetUnavailable.Error())
	assert.Contains(t, f.logs.String(), "placeholder")
}

func TestModelsLoadOncePerSelection(t *testing.T) {
	f := newFixture(t)
	f.store.Select(types.CategoryStock, types.PartDefinition{ID: "ctr", Model: "models/stock_ctr.glb"})
	for i := 0; i < 5; i++ {
		f.scene.Render(time.Millisecond)
	}
	assert.Equal(t, 1, f.loader.calls)

	f.store.Clear(types.CategoryStock)
	assert.Empty(t, f.scene.Render(0).Parts)
}

func TestReloadModels(t *testing.T) {
	f := newFixture(t)
	f.store.Select(types.CategoryStock, types.PartDefinition{ID: "ctr", Model: "models/stock_ctr.glb"})
	f.scene.Render(0)
	require.Equal(t, 1, f.loader.calls)

	f.scene.ReloadModels()
	frame := f.scene.Render(0)
	assert.Equal(t, 2, f.loader.calls)
	require.Len(t, frame.Parts, 1)
	assert.NotNil(t, frame.Parts[0].Node)
}

func TestRenderUsesLiveWorkingTransform(t *testing.T) {
	f := newFixture(t)
	f.store.Select(types.CategoryOptic, types.PartDefinition{ID: "red-dot", Model: "models/optic_red_dot.glb"})
	f.session.EnterEdit()
	f.session.SelectCategory(types.CategoryOptic)
	f.session.SetTransformMode(types.ModeRotate)
	f.session.OnLiveTransformChange(mgl64.Vec3{0.3, 0.7, 0}, mgl64.Vec3{0, 0.5, 0}, types.IdentityScale)

	frame := f.scene.Render(0)
	require.Len(t, frame.Parts, 1)
	assert.Equal(t, mgl64.Vec3{0.3, 0.7, 0}, frame.Parts[0].Transform.Position)
	assert.True(t, frame.Editing)
	assert.Equal(t, types.CategoryOptic, frame.Active)
	assert.Equal(t, types.ModeRotate, frame.Mode)
}

func TestRenderSamplesCamera(t *testing.T) {
	f := newFixture(t)
	f.animator.SetPreset("side")

	frame := f.scene.Render(camera.DefaultDuration / 2)
	assert.True(t, frame.Moving)

	frame = f.scene.Render(camera.DefaultDuration)
	assert.False(t, frame.Moving)
	side, _, _ := camera.PresetPose("side")
	assert.Equal(t, side, frame.Camera)
	assert.Equal(t, uint64(2), frame.Seq)
}

func TestBaseColor(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, types.DefaultBaseColor, f.scene.Render(0).Receiver.Color)

	require.NoError(t, f.scene.SetBaseColor("fde"))
	frame := f.scene.Render(0)
	assert.Equal(t, "#7f7158", frame.BaseColor)
	assert.Equal(t, "#7f7158", frame.Receiver.Color)

	err := f.scene.SetBaseColor("chartreuse")
	assert.ErrorIs(t, err, types.ErrInvalidColor)
	assert.Equal(t, "#7f7158", f.scene.BaseColor())
}

func TestResolveColor(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"black", "#222", false},
		{"OD-Green", "#4a5340", false},
		{"#ABC", "#abc", false},
		{"#4b4b4b", "#4b4b4b", false},
		{"#4b4b4bff", "#4b4b4bff", false},
		{"#4b4b4", "", true},
		{"red", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ResolveColor(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, types.ErrInvalidColor)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScreenshotName(t *testing.T) {
	ts := time.UnixMilli(1700000000123)
	assert.Equal(t, "ar15_build_1700000000123.png", ScreenshotName(ts))
}
