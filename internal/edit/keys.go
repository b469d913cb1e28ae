package edit

import (
	"github.com/mesh-intelligence/configurator/pkg/types"
)

// Default mode keys.
const (
	KeyTranslate = "w"
	KeyRotate    = "e"
	KeyScale     = "r"
)

// KeyDispatcher routes key presses to bound actions. Keys are matched
// exactly, so "W" is not "w".
type KeyDispatcher struct {
	bindings map[string]func()
}

// NewKeyDispatcher returns a dispatcher with the mode keys bound to session.
// The mode keys are active whether or not edit mode is on: a mode chosen
// while viewing is the one the gizmo opens with.
func NewKeyDispatcher(session *Session) *KeyDispatcher {
	d := &KeyDispatcher{bindings: make(map[string]func())}
	d.Bind(KeyTranslate, func() { session.SetTransformMode(types.ModeTranslate) })
	d.Bind(KeyRotate, func() { session.SetTransformMode(types.ModeRotate) })
	d.Bind(KeyScale, func() { session.SetTransformMode(types.ModeScale) })
	return d
}

// Bind sets the action for key, replacing any previous binding. A nil
// action removes the binding.
func (d *KeyDispatcher) Bind(key string, action func()) {
	if action == nil {
		delete(d.bindings, key)
		return
	}
	d.bindings[key] = action
}

// Dispatch runs the action bound to key and reports whether one was bound.
func (d *KeyDispatcher) Dispatch(key string) bool {
	action, ok := d.bindings[key]
	if !ok {
		return false
	}
	action()
	return true
}
