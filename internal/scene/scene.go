// Package scene assembles what the renderer draws each frame: the receiver
// in its base color, every selected part at its placement with its loaded
// model (or the error marker), and the camera pose.
//
// The scene follows the build through its change events and samples the
// camera animator once per Render call. It never writes to the build.
package scene

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/mesh-intelligence/configurator/internal/anchor"
	"github.com/mesh-intelligence/configurator/internal/asset"
	"github.com/mesh-intelligence/configurator/internal/build"
	"github.com/mesh-intelligence/configurator/internal/camera"
	"github.com/mesh-intelligence/configurator/internal/edit"
	"github.com/mesh-intelligence/configurator/pkg/types"
)

// receiverSize is the box drawn for the receiver at the origin.
var receiverSize = mgl64.Vec3{2.5, 0.9, 0.45}

// PartInstance is one part as drawn in a frame.
type PartInstance struct {
	Category  types.Category  `json:"category"`
	PartID    string          `json:"part_id"`
	Transform types.Transform `json:"transform"`
	Node      *asset.Node     `json:"node"`
	Error     string          `json:"error,omitempty"`
}

// Frame is the read-only input handed to the renderer for one frame.
type Frame struct {
	Seq       uint64              `json:"seq"`
	BaseColor string              `json:"base_color"`
	Receiver  asset.Node          `json:"receiver"`
	Camera    types.CameraPose    `json:"camera"`
	Moving    bool                `json:"moving"`
	Parts     []PartInstance      `json:"parts"`
	Editing   bool                `json:"editing"`
	Active    types.Category      `json:"active,omitempty"`
	Mode      types.TransformMode `json:"mode"`
}

// Option configures a Scene.
type Option func(*Scene)

// WithSession lets the scene draw the active part at the session's live
// working transform and report the edit state.
func WithSession(s *edit.Session) Option {
	return func(sc *Scene) { sc.session = s }
}

// WithLogger sets the logger used for asset failures.
func WithLogger(l *slog.Logger) Option {
	return func(sc *Scene) { sc.logger = l }
}

// Scene is the render surface. It is not safe for concurrent use.
type Scene struct {
	store    *build.Store
	anchors  anchor.Table
	animator *camera.Animator
	loader   asset.Loader
	session  *edit.Session
	logger   *slog.Logger

	baseColor string
	nodes     map[types.Category]asset.Result
	seq       uint64

	unsubscribe func()
}

// New returns a scene over store. Models are loaded through loader as parts
// are selected.
func New(store *build.Store, anchors anchor.Table, animator *camera.Animator, loader asset.Loader, opts ...Option) *Scene {
	sc := &Scene{
		store:     store,
		anchors:   anchors,
		animator:  animator,
		loader:    loader,
		logger:    slog.Default(),
		baseColor: types.DefaultBaseColor,
		nodes:     make(map[types.Category]asset.Result),
	}
	for _, opt := range opts {
		opt(sc)
	}
	for _, e := range store.Entries() {
		sc.load(e.Category, e.Part)
	}
	sc.unsubscribe = store.Subscribe(sc.onBuildChange)
	return sc
}

// Close stops following the build.
func (sc *Scene) Close() {
	if sc.unsubscribe != nil {
		sc.unsubscribe()
		sc.unsubscribe = nil
	}
}

// SetBaseColor sets the receiver color from a swatch name or hex color.
func (sc *Scene) SetBaseColor(s string) error {
	c, err := ResolveColor(s)
	if err != nil {
		return err
	}
	sc.baseColor = c
	return nil
}

// ReloadModels drops the loaded models of every part. They are loaded
// again on the next Render.
func (sc *Scene) ReloadModels() {
	sc.nodes = make(map[types.Category]asset.Result)
}

// BaseColor returns the receiver color.
func (sc *Scene) BaseColor() string { return sc.baseColor }

// Render advances the camera by dt and returns the frame to draw.
func (sc *Scene) Render(dt time.Duration) Frame {
	sc.seq++
	f := Frame{
		Seq:       sc.seq,
		BaseColor: sc.baseColor,
		Receiver:  asset.Node{Model: "receiver", Size: receiverSize, Color: sc.baseColor},
	}
	if sc.animator != nil {
		f.Camera = sc.animator.Tick(dt)
		f.Moving = sc.animator.Active()
	}
	if sc.session != nil {
		st := sc.session.Status()
		f.Editing = st.State == edit.StateEditing
		f.Active = st.Active
		f.Mode = st.Mode
	}

	for _, e := range sc.store.Entries() {
		inst := PartInstance{
			Category:  e.Category,
			PartID:    e.Part.ID,
			Transform: sc.placement(e),
		}
		r, ok := sc.nodes[e.Category]
		if !ok {
			r = sc.load(e.Category, e.Part)
		}
		if r.OK() {
			inst.Node = r.Node
		} else {
			inst.Node = asset.Placeholder(e.Part.Model)
			inst.Error = r.Err.Error()
		}
		f.Parts = append(f.Parts, inst)
	}
	return f
}

func (sc *Scene) placement(e build.Entry) types.Transform {
	if sc.session != nil && sc.session.Active() == e.Category {
		if t, ok := sc.session.Working(); ok {
			return t
		}
	}
	return e.Part.Placement(sc.anchors.AnchorFor(e.Category))
}

func (sc *Scene) onBuildChange(ev build.Event) {
	switch ev.Kind {
	case build.EventCleared:
		delete(sc.nodes, ev.Category)
	case build.EventSelected:
		sc.load(ev.Category, *ev.Current)
	case build.EventOverridden:
		// Same model, only the placement moved.
	}
}

func (sc *Scene) load(c types.Category, part types.PartDefinition) asset.Result {
	r := sc.loader.Load(part.Model)
	if !r.OK() {
		sc.logger.Warn("part model unavailable, drawing placeholder",
			"category", c, "part", part.ID, "model", part.Model, "error", r.Err)
	}
	sc.nodes[c] = r
	return r
}

// ScreenshotName returns the file name a capture of the build taken at t is
// saved under.
func ScreenshotName(t time.Time) string {
	return fmt.Sprintf("ar15_build_%d.png", t.UnixMilli())
}
