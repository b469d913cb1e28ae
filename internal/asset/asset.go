// Package asset resolves part model references into renderable nodes.
//
// Loading never fails hard: a Load returns either Loaded(node) or
// Failed(reason), and the scene substitutes the error-marker placeholder
// for a failed part.
package asset

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/mesh-intelligence/configurator/pkg/types"
)

// ErrorColor marks a part whose model could not be loaded.
const ErrorColor = "#ff00ff"

// Node is the renderable stand-in for a part model: a box of Size in
// Color, plus where the model came from.
type Node struct {
	Model       string     `json:"model"`
	Path        string     `json:"path,omitempty"`
	Format      string     `json:"format,omitempty"`
	Size        mgl64.Vec3 `json:"size"`
	Color       string     `json:"color"`
	Placeholder bool       `json:"placeholder,omitempty"`
}

// Result is the outcome of loading one model.
type Result struct {
	Node *Node
	Err  error
}

// Loaded returns a successful result.
func Loaded(n *Node) Result { return Result{Node: n} }

// Failed returns a failed result. The error is wrapped with
// types.ErrAssetUnavailable unless it already is.
func Failed(reason error) Result {
	if reason == nil || !errors.Is(reason, types.ErrAssetUnavailable) {
		reason = fmt.Errorf("%w: %v", types.ErrAssetUnavailable, reason)
	}
	return Result{Err: reason}
}

// OK reports whether the model was loaded.
func (r Result) OK() bool { return r.Err == nil && r.Node != nil }

// Loader loads a model reference.
type Loader interface {
	Load(model string) Result
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(model string) Result

// Load calls f(model).
func (f LoaderFunc) Load(model string) Result { return f(model) }

// shape is the box used to draw a part of a given kind.
type shape struct {
	keyword string
	size    mgl64.Vec3
	color   string
}

// shapes are matched against the model reference in order.
var shapes = []shape{
	{"barrel", mgl64.Vec3{3, 0.3, 0.3}, "#222"},
	{"handguard", mgl64.Vec3{2.2, 0.5, 0.5}, "#333"},
	{"stock", mgl64.Vec3{1.2, 1, 0.4}, "#2d3436"},
	{"grip", mgl64.Vec3{0.4, 0.8, 0.4}, "#222"},
	{"optic", mgl64.Vec3{0.6, 0.5, 0.4}, "#111"},
}

// Default box for models that match no known kind.
var (
	defaultSize  = mgl64.Vec3{1, 1, 1}
	defaultColor = "#444"
)

// Geometry returns the box size and color used to draw model.
func Geometry(model string) (mgl64.Vec3, string) {
	size, color := defaultSize, defaultColor
	lower := strings.ToLower(model)
	// Later matches win, so "optic_on_barrel" draws as an optic.
	for _, s := range shapes {
		if strings.Contains(lower, s.keyword) {
			size, color = s.size, s.color
		}
	}
	return size, color
}

// Placeholder returns the error-marker node drawn for a model that failed
// to load.
func Placeholder(model string) *Node {
	return &Node{
		Model:       model,
		Size:        defaultSize,
		Color:       ErrorColor,
		Placeholder: true,
	}
}
