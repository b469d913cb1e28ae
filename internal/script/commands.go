package script

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/mesh-intelligence/configurator/internal/scene"
	"github.com/mesh-intelligence/configurator/pkg/types"
)

// ErrUsage is returned when a command is given the wrong arguments.
var ErrUsage = errors.New("usage")

func builtinCommands() map[string]command {
	return map[string]command{
		"select":     {usage: "select <category> <part-id>", run: (*Runner).cmdSelect},
		"clear":      {usage: "clear <category>", run: (*Runner).cmdClear},
		"edit":       {usage: "edit on|off|toggle", run: (*Runner).cmdEdit},
		"focus":      {usage: "focus <category>", run: (*Runner).cmdFocus},
		"mode":       {usage: "mode translate|rotate|scale", run: (*Runner).cmdMode},
		"key":        {usage: "key <key>", run: (*Runner).cmdKey},
		"drag":       {usage: "drag x y z | drag px py pz rx ry rz sx sy sz", run: (*Runner).cmdDrag},
		"commit":     {usage: "commit", run: (*Runner).cmdCommit},
		"camera":     {usage: "camera <preset>", run: (*Runner).cmdCamera},
		"tick":       {usage: "tick <duration>", run: (*Runner).cmdTick},
		"color":      {usage: "color <swatch|#hex>", run: (*Runner).cmdColor},
		"frame":      {usage: "frame", run: (*Runner).cmdFrame},
		"status":     {usage: "status", run: (*Runner).cmdStatus},
		"screenshot": {usage: "screenshot", run: (*Runner).cmdScreenshot},
		"help":       {usage: "help", run: (*Runner).cmdHelp},
	}
}

func usage(c string) error {
	return fmt.Errorf("%w: %s", ErrUsage, builtinCommands()[c].usage)
}

func (r *Runner) cmdSelect(args []string) error {
	if len(args) != 2 {
		return usage("select")
	}
	c := types.Category(args[0])
	part, err := r.catalog.Part(c, args[1])
	if err != nil {
		return err
	}
	r.store.Select(c, part)
	r.notice("selected %s %s", c, part.ID)
	return nil
}

func (r *Runner) cmdClear(args []string) error {
	if len(args) != 1 {
		return usage("clear")
	}
	c := types.Category(args[0])
	if !r.store.Has(c) {
		return fmt.Errorf("category %s: %w", c, types.ErrNotFound)
	}
	r.store.Clear(c)
	r.notice("cleared %s", c)
	return nil
}

func (r *Runner) cmdEdit(args []string) error {
	if len(args) != 1 {
		return usage("edit")
	}
	switch strings.ToLower(args[0]) {
	case "on":
		r.session.EnterEdit()
	case "off":
		r.session.ExitEdit()
	case "toggle":
		r.session.ToggleEdit()
	default:
		return usage("edit")
	}
	r.emitStatus()
	return nil
}

func (r *Runner) cmdFocus(args []string) error {
	if len(args) != 1 {
		return usage("focus")
	}
	c := types.Category(args[0])
	r.session.SelectCategory(c)
	if r.session.Active() != c {
		r.notice("focus %s ignored", c)
		return nil
	}
	r.emitStatus()
	return nil
}

func (r *Runner) cmdMode(args []string) error {
	if len(args) != 1 {
		return usage("mode")
	}
	m, ok := types.ParseTransformMode(args[0])
	if !ok {
		return usage("mode")
	}
	r.session.SetTransformMode(m)
	r.emitStatus()
	return nil
}

func (r *Runner) cmdKey(args []string) error {
	if len(args) != 1 {
		return usage("key")
	}
	if !r.keys.Dispatch(args[0]) {
		r.notice("key %s unbound", args[0])
		return nil
	}
	r.emitStatus()
	return nil
}

func (r *Runner) cmdDrag(args []string) error {
	nums, err := parseFloats(args)
	if err != nil {
		return err
	}
	var moved bool
	switch len(nums) {
	case 3:
		moved = r.gizmo.drag(mgl64.Vec3{nums[0], nums[1], nums[2]})
	case 9:
		moved = r.gizmo.set(types.Transform{
			Position: mgl64.Vec3{nums[0], nums[1], nums[2]},
			Rotation: mgl64.Vec3{nums[3], nums[4], nums[5]},
			Scale:    mgl64.Vec3{nums[6], nums[7], nums[8]},
		})
	default:
		return usage("drag")
	}
	if !moved {
		r.notice("drag ignored: nothing attached")
	}
	return nil
}

func (r *Runner) cmdCommit(args []string) error {
	if len(args) != 0 {
		return usage("commit")
	}
	c := r.session.Active()
	delta, ok := r.session.LastDelta()
	if !ok {
		r.notice("nothing to commit")
		return nil
	}
	part, _ := r.store.Get(c)
	o := types.TransformOverride{Category: c, PartID: part.ID, Delta: delta}
	saved := false
	// The build only takes the override once it is stored.
	if r.overrides != nil {
		stored, err := r.overrides.SaveOverride(o)
		if err != nil {
			return fmt.Errorf("saving override for %s %s: %w", c, part.ID, err)
		}
		o, saved = stored, true
	}
	r.session.Commit()
	r.emit(overrideRecord{Event: "override", Override: o, Saved: saved},
		fmt.Sprintf("override %s %s offset=%s rotation=%s scale=%s saved=%t", c, part.ID,
			formatVec(delta.Offset, types.OffsetPrecision),
			formatVec(delta.Rotation, types.RotationPrecision),
			formatVec(delta.Scale, types.ScalePrecision), saved))
	return nil
}

func (r *Runner) cmdCamera(args []string) error {
	if len(args) != 1 {
		return usage("camera")
	}
	preset := r.animator.SetPreset(args[0])
	if _, ok := types.ParsePreset(args[0]); !ok {
		r.notice("unknown preset %q, using %s", args[0], preset)
	}
	r.emitCamera()
	return nil
}

// cmdTick advances time in frame-interval steps, rendering each frame,
// until the duration is used up or the camera comes to rest.
func (r *Runner) cmdTick(args []string) error {
	if len(args) != 1 {
		return usage("tick")
	}
	d, err := parseDuration(args[0])
	if err != nil {
		return err
	}
	for d > 0 && r.animator.Active() {
		step := min(r.frameInterval, d)
		r.scene.Render(step)
		d -= step
	}
	r.scene.Render(0)
	r.emitCamera()
	return nil
}

func (r *Runner) cmdColor(args []string) error {
	if len(args) != 1 {
		return usage("color")
	}
	if err := r.scene.SetBaseColor(args[0]); err != nil {
		return err
	}
	r.notice("base color %s", r.scene.BaseColor())
	return nil
}

func (r *Runner) cmdFrame(args []string) error {
	if len(args) != 0 {
		return usage("frame")
	}
	r.emitFrame(r.scene.Render(0))
	return nil
}

func (r *Runner) cmdStatus(args []string) error {
	if len(args) != 0 {
		return usage("status")
	}
	r.emitStatus()
	r.emitCamera()
	return nil
}

func (r *Runner) cmdScreenshot(args []string) error {
	if len(args) != 0 {
		return usage("screenshot")
	}
	r.notice("screenshot %s", scene.ScreenshotName(time.Now()))
	return nil
}

func (r *Runner) cmdHelp(args []string) error {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		r.notice("%s", r.commands[name].usage)
	}
	return nil
}

func parseFloats(args []string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		f, err := strconv.ParseFloat(a, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%q: %w", a, types.ErrInvalidVector)
		}
		out[i] = f
	}
	return out, nil
}

// maxSeconds is the longest duration, in seconds, a time.Duration holds.
const maxSeconds = float64(math.MaxInt64 / int64(time.Second))

// parseDuration accepts Go durations ("600ms") and bare seconds ("1.2").
func parseDuration(s string) (time.Duration, error) {
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		if math.IsNaN(secs) || math.IsInf(secs, 0) || secs > maxSeconds {
			return 0, fmt.Errorf("duration %q out of range", s)
		}
		if secs < 0 {
			return 0, fmt.Errorf("negative duration %q", s)
		}
		return time.Duration(math.Round(secs * float64(time.Second))), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("duration %q: %w", s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %q", s)
	}
	return d, nil
}
