// Package edit implements the transform edit session: the edit-mode state
// machine, the active category and transform mode, the live working
// transform of the active part and the delta reported while it is dragged.
//
// Every operation is total. Transitions that make no sense in the current
// state (selecting a category while viewing, dragging with nothing active)
// are ignored rather than reported as errors; they are ordinary UI races.
//
// A Session is not safe for concurrent use.
package edit

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/mesh-intelligence/configurator/internal/anchor"
	"github.com/mesh-intelligence/configurator/internal/build"
	"github.com/mesh-intelligence/configurator/pkg/types"
)

// State is the top-level edit state.
type State int

// Session states.
const (
	StateViewing State = iota
	StateEditing
)

func (s State) String() string {
	if s == StateEditing {
		return "editing"
	}
	return "viewing"
}

// Gizmo is the interactive transform handle. The session attaches it to
// the working transform of the active part and receives every drag update
// through onChange.
type Gizmo interface {
	Attach(target types.Transform, mode types.TransformMode, onChange func(types.Transform))
	Detach()
}

// ReportFunc receives every delta computed from a live drag.
type ReportFunc func(c types.Category, d types.TransformDelta)

// Status is a snapshot of the session state.
type Status struct {
	State    State
	Active   types.Category
	Mode     types.TransformMode
	Attached bool // gizmo attached to the active part
}

// EventKind identifies a session change.
type EventKind int

// Session event kinds.
const (
	EventEditToggled EventKind = iota
	EventCategoryChanged
	EventModeChanged
	EventDeltaReported
)

// Event is published after every observable session change.
type Event struct {
	Kind   EventKind
	Status Status
	Delta  types.TransformDelta // set for EventDeltaReported
}

// Option configures a Session.
type Option func(*Session)

// WithGizmo attaches the session to an interactive gizmo.
func WithGizmo(g Gizmo) Option {
	return func(s *Session) { s.gizmo = g }
}

// WithReporter sets the function that receives reported deltas.
func WithReporter(fn ReportFunc) Option {
	return func(s *Session) { s.report = fn }
}

// Session is the transform edit state machine. It reads anchors and the
// build but never owns them; the build is only written by Commit.
type Session struct {
	anchors anchor.Table
	store   *build.Store
	gizmo   Gizmo
	report  ReportFunc

	editing bool
	active  types.Category
	mode    types.TransformMode

	working   types.Transform
	lastDelta types.TransformDelta
	hasDelta  bool

	// attachment is bumped on every gizmo attach and detach; callbacks
	// from an older attachment are dropped.
	attachment int
	attached   bool

	subscribers map[int]func(Event)
	nextSub     int
	unsubscribe func()
}

// NewSession returns a session in the viewing state with no active
// category and the translate mode. It subscribes to store so the working
// transform follows part swaps.
func NewSession(anchors anchor.Table, store *build.Store, opts ...Option) *Session {
	s := &Session{
		anchors:     anchors,
		store:       store,
		mode:        types.ModeTranslate,
		subscribers: make(map[int]func(Event)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.unsubscribe = store.Subscribe(s.onBuildChange)
	return s
}

// Close detaches the gizmo and stops following the build.
func (s *Session) Close() {
	s.detach()
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

// Subscribe registers fn for session events. The returned function removes
// the subscription.
func (s *Session) Subscribe(fn func(Event)) (unsubscribe func()) {
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	return func() { delete(s.subscribers, id) }
}

// Status returns the current state snapshot.
func (s *Session) Status() Status {
	st := StateViewing
	if s.editing {
		st = StateEditing
	}
	return Status{State: st, Active: s.active, Mode: s.mode, Attached: s.attached}
}

// Editing reports whether edit mode is on.
func (s *Session) Editing() bool { return s.editing }

// Active returns the active category, or CategoryNone.
func (s *Session) Active() types.Category { return s.active }

// Mode returns the current transform mode.
func (s *Session) Mode() types.TransformMode { return s.mode }

// EnterEdit turns edit mode on.
func (s *Session) EnterEdit() {
	if s.editing {
		return
	}
	s.editing = true
	s.publish(Event{Kind: EventEditToggled})
}

// ExitEdit turns edit mode off. The active category is always cleared and
// any drag in progress is cancelled.
func (s *Session) ExitEdit() {
	hadActive := !s.active.IsNone()
	s.clearActive()
	if !s.editing {
		if hadActive {
			s.publish(Event{Kind: EventCategoryChanged})
		}
		return
	}
	s.editing = false
	s.publish(Event{Kind: EventEditToggled})
}

// ToggleEdit flips edit mode.
func (s *Session) ToggleEdit() {
	if s.editing {
		s.ExitEdit()
		return
	}
	s.EnterEdit()
}

// SelectCategory makes c the active category. It is ignored while viewing
// and when c has no part in the build. Switching category cancels a drag
// in progress on the previous part.
func (s *Session) SelectCategory(c types.Category) {
	if !s.editing || c.IsNone() || !s.store.Has(c) || c == s.active {
		return
	}
	s.active = c
	s.reanchor()
	s.attach()
	s.publish(Event{Kind: EventCategoryChanged})
}

// SetTransformMode changes the gizmo handle. It is accepted in every state;
// the gizmo only changes shape while a category is active.
func (s *Session) SetTransformMode(m types.TransformMode) {
	if m < types.ModeTranslate || m > types.ModeScale || m == s.mode {
		return
	}
	s.mode = m
	if s.editing && !s.active.IsNone() {
		s.attach()
	}
	s.publish(Event{Kind: EventModeChanged})
}

// OnLiveTransformChange takes one drag update for the active part. It
// stores the new working transform and reports the delta against the
// category anchor: offset and rotation rounded to 3 decimals, scale to 5.
// With no active category the update is dropped and ok is false.
func (s *Session) OnLiveTransformChange(position, rotation, scale mgl64.Vec3) (delta types.TransformDelta, ok bool) {
	if s.active.IsNone() {
		return types.TransformDelta{}, false
	}
	s.working = types.Transform{Position: position, Rotation: rotation, Scale: scale}

	delta = types.TransformDelta{
		Offset:   types.RoundVec(position.Sub(s.anchors.AnchorFor(s.active)), types.OffsetPrecision),
		Rotation: types.RoundVec(rotation, types.RotationPrecision),
		Scale:    types.RoundVec(scale, types.ScalePrecision),
	}
	s.lastDelta = delta
	s.hasDelta = true

	if s.report != nil {
		s.report(s.active, delta)
	}
	s.publish(Event{Kind: EventDeltaReported, Delta: delta})
	return delta, true
}

// Working returns the working transform of the active part.
func (s *Session) Working() (types.Transform, bool) {
	if s.active.IsNone() {
		return types.Transform{}, false
	}
	return s.working, true
}

// LastDelta returns the most recent delta reported for the active part.
func (s *Session) LastDelta() (types.TransformDelta, bool) {
	if s.active.IsNone() || !s.hasDelta {
		return types.TransformDelta{}, false
	}
	return s.lastDelta, true
}

// Commit writes the last reported delta into the build as the active
// part's override and returns it. Nothing is committed when no delta has
// been reported for the active part.
func (s *Session) Commit() (types.TransformDelta, bool) {
	d, ok := s.LastDelta()
	if !ok {
		return types.TransformDelta{}, false
	}
	s.store.Override(s.active, d)
	return d, true
}

func (s *Session) onBuildChange(ev build.Event) {
	if ev.Category != s.active || s.active.IsNone() {
		return
	}
	switch ev.Kind {
	case build.EventCleared:
		s.clearActive()
		s.publish(Event{Kind: EventCategoryChanged})
	case build.EventSelected:
		s.hasDelta = false
		s.reanchor()
		s.attach()
	case build.EventOverridden:
		// The committed override is the current working transform.
		s.reanchor()
	}
}

// reanchor rebuilds the working transform of the active part from its
// category anchor and the part's override fields.
func (s *Session) reanchor() {
	part, ok := s.store.Get(s.active)
	if !ok {
		return
	}
	s.working = part.Placement(s.anchors.AnchorFor(s.active))
}

func (s *Session) clearActive() {
	s.detach()
	s.active = types.CategoryNone
	s.hasDelta = false
	s.working = types.Transform{}
}

func (s *Session) attach() {
	if s.attached && s.gizmo != nil {
		s.gizmo.Detach()
	}
	s.attachment++
	s.attached = true
	if s.gizmo == nil {
		return
	}
	gen := s.attachment
	s.gizmo.Attach(s.working, s.mode, func(t types.Transform) {
		if gen != s.attachment {
			return
		}
		s.OnLiveTransformChange(t.Position, t.Rotation, t.Scale)
	})
}

func (s *Session) detach() {
	if !s.attached {
		return
	}
	s.attachment++
	s.attached = false
	if s.gizmo != nil {
		s.gizmo.Detach()
	}
}

func (s *Session) publish(ev Event) {
	ev.Status = s.Status()
	for id := 0; id < s.nextSub; id++ {
		if fn, ok := s.subscribers[id]; ok {
			fn(ev)
		}
	}
}
