// Package script drives a complete configurator (build, edit session, key
// bindings, camera and scene) from line-oriented commands, one per line:
//
//	select optic red-dot
//	edit on
//	focus optic
//	key e
//	drag 0 0.5 0
//	commit
//	camera side
//	tick 1.2s
//	frame
//
// Arguments are split with shell quoting rules; '#' starts a comment line.
package script

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/mattn/go-shellwords"

	"github.com/mesh-intelligence/configurator/internal/anchor"
	"github.com/mesh-intelligence/configurator/internal/asset"
	"github.com/mesh-intelligence/configurator/internal/build"
	"github.com/mesh-intelligence/configurator/internal/camera"
	"github.com/mesh-intelligence/configurator/internal/catalog"
	"github.com/mesh-intelligence/configurator/internal/edit"
	"github.com/mesh-intelligence/configurator/internal/scene"
	"github.com/mesh-intelligence/configurator/pkg/types"
)

// OverrideSaver persists committed overrides.
type OverrideSaver interface {
	SaveOverride(o types.TransformOverride) (types.TransformOverride, error)
}

// Options configures a Runner. Zero values select defaults.
type Options struct {
	Out             io.Writer
	JSON            bool
	ContinueOnError bool
	Anchors         *anchor.Table
	Loader          asset.Loader
	Overrides       OverrideSaver
	CameraDuration  time.Duration
	FrameInterval   time.Duration
	BaseColor       string
	Logger          *slog.Logger

	// Reload delivers replacement catalogs. Pending catalogs are applied
	// between lines by Run.
	Reload <-chan *catalog.Catalog
}

// Runner executes commands against one configurator.
type Runner struct {
	catalog  *catalog.Catalog
	store    *build.Store
	session  *edit.Session
	keys     *edit.KeyDispatcher
	pose     types.CameraPose
	animator *camera.Animator
	scene    *scene.Scene
	assets   *asset.Cache
	gizmo    *gizmo

	overrides     OverrideSaver
	out           io.Writer
	json          bool
	continueOnErr bool
	frameInterval time.Duration
	logger        *slog.Logger
	reload        <-chan *catalog.Catalog

	commands map[string]command
}

type command struct {
	usage string
	run   func(r *Runner, args []string) error
}

// New wires a configurator around cat.
func New(cat *catalog.Catalog, opts Options) (*Runner, error) {
	r := &Runner{
		catalog:       cat,
		store:         build.NewStore(),
		gizmo:         &gizmo{},
		overrides:     opts.Overrides,
		out:           opts.Out,
		json:          opts.JSON,
		continueOnErr: opts.ContinueOnError,
		frameInterval: opts.FrameInterval,
		logger:        opts.Logger,
		reload:        opts.Reload,
	}
	if r.out == nil {
		r.out = io.Discard
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.frameInterval <= 0 {
		r.frameInterval = time.Second / types.DefaultCameraFrameRate
	}
	anchors := anchor.Default()
	if opts.Anchors != nil {
		anchors = *opts.Anchors
	}
	loader := opts.Loader
	if loader == nil {
		loader = asset.LoaderFunc(func(model string) asset.Result {
			size, color := asset.Geometry(model)
			return asset.Loaded(&asset.Node{Model: model, Size: size, Color: color})
		})
	}

	r.session = edit.NewSession(anchors, r.store, edit.WithGizmo(r.gizmo), edit.WithReporter(r.reportDelta))
	r.keys = edit.NewKeyDispatcher(r.session)

	r.pose, _, _ = camera.PresetPose(string(types.PresetOverview))
	r.animator = camera.New(&r.pose, camera.WithDuration(opts.CameraDuration))

	r.assets = asset.NewCache(loader)
	r.scene = scene.New(r.store, anchors, r.animator, r.assets,
		scene.WithSession(r.session), scene.WithLogger(r.logger))
	if opts.BaseColor != "" {
		if err := r.scene.SetBaseColor(opts.BaseColor); err != nil {
			r.Close()
			return nil, err
		}
	}

	r.commands = builtinCommands()
	return r, nil
}

// Close releases the subscriptions held by the configurator.
func (r *Runner) Close() {
	r.scene.Close()
	r.session.Close()
}

// SetCatalog replaces the catalog used by later select commands. Parts
// already in the build are kept; models are loaded afresh on next use.
func (r *Runner) SetCatalog(cat *catalog.Catalog) {
	r.catalog = cat
	r.assets.Forget()
	r.scene.ReloadModels()
}

// Store returns the build.
func (r *Runner) Store() *build.Store { return r.store }

// Session returns the edit session.
func (r *Runner) Session() *edit.Session { return r.session }

// Animator returns the camera animator.
func (r *Runner) Animator() *camera.Animator { return r.animator }

// Scene returns the render surface.
func (r *Runner) Scene() *scene.Scene { return r.scene }

// Run executes every line read from in. Unless ContinueOnError is set it
// stops at the first failing line.
func (r *Runner) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	line := 0
	for scanner.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return err
		}
		r.applyReloads()
		if err := r.Exec(scanner.Text()); err != nil {
			if !r.continueOnErr {
				return fmt.Errorf("line %d: %w", line, err)
			}
			r.emit(errorRecord{Event: "error", Line: line, Error: err.Error()},
				fmt.Sprintf("error: line %d: %v", line, err))
		}
	}
	return scanner.Err()
}

func (r *Runner) applyReloads() {
	for {
		select {
		case cat, ok := <-r.reload:
			if !ok {
				r.reload = nil
				return
			}
			if cat == nil {
				continue
			}
			r.SetCatalog(cat)
			r.logger.Info("catalog reloaded", "categories", len(cat.Categories()), "parts", cat.PartCount())
		default:
			return
		}
	}
}

// Exec executes a single command line. Blank and comment lines do nothing.
func (r *Runner) Exec(line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	args, err := shellwords.Parse(line)
	if err != nil {
		return fmt.Errorf("parsing %q: %w", line, err)
	}
	if len(args) == 0 {
		return nil
	}
	cmd, ok := r.commands[strings.ToLower(args[0])]
	if !ok {
		return fmt.Errorf("unknown command %q", args[0])
	}
	if err := cmd.run(r, args[1:]); err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	return nil
}

func (r *Runner) reportDelta(c types.Category, d types.TransformDelta) {
	r.emit(deltaRecord{Event: "delta", Category: c, Delta: d},
		fmt.Sprintf("delta %s offset=%s rotation=%s scale=%s", c,
			formatVec(d.Offset, types.OffsetPrecision),
			formatVec(d.Rotation, types.RotationPrecision),
			formatVec(d.Scale, types.ScalePrecision)))
}
