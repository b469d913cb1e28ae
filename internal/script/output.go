package script

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/mesh-intelligence/configurator/internal/edit"
	"github.com/mesh-intelligence/configurator/internal/scene"
	"github.com/mesh-intelligence/configurator/pkg/types"
)

type deltaRecord struct {
	Event    string               `json:"event"`
	Category types.Category       `json:"category"`
	Delta    types.TransformDelta `json:"delta"`
}

type overrideRecord struct {
	Event    string                  `json:"event"`
	Override types.TransformOverride `json:"override"`
	Saved    bool                    `json:"saved"`
}

type statusRecord struct {
	Event    string              `json:"event"`
	Editing  bool                `json:"editing"`
	Active   types.Category      `json:"active,omitempty"`
	Mode     types.TransformMode `json:"mode"`
	Attached bool                `json:"attached"`
}

type cameraRecord struct {
	Event    string             `json:"event"`
	Preset   types.CameraPreset `json:"preset"`
	Pose     types.CameraPose   `json:"pose"`
	Moving   bool               `json:"moving"`
	Progress float64            `json:"progress"`
}

type frameRecord struct {
	Event string      `json:"event"`
	Frame scene.Frame `json:"frame"`
}

type noticeRecord struct {
	Event   string `json:"event"`
	Message string `json:"message"`
}

type errorRecord struct {
	Event string `json:"event"`
	Line  int    `json:"line"`
	Error string `json:"error"`
}

// emit writes rec as one JSON line in JSON mode, text otherwise.
func (r *Runner) emit(rec any, text string) {
	if r.json {
		data, err := json.Marshal(rec)
		if err != nil {
			fmt.Fprintf(r.out, "{\"event\":\"error\",\"error\":%q}\n", err.Error())
			return
		}
		fmt.Fprintf(r.out, "%s\n", data)
		return
	}
	fmt.Fprintln(r.out, text)
}

func (r *Runner) notice(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.emit(noticeRecord{Event: "notice", Message: msg}, msg)
}

func (r *Runner) emitStatus() {
	st := r.session.Status()
	text := fmt.Sprintf("status %s mode=%s", st.State, st.Mode)
	if !st.Active.IsNone() {
		text += " active=" + string(st.Active)
	}
	if st.Attached {
		text += " gizmo=attached"
	}
	r.emit(statusRecord{
		Event:    "status",
		Editing:  st.State == edit.StateEditing,
		Active:   st.Active,
		Mode:     st.Mode,
		Attached: st.Attached,
	}, text)
}

func (r *Runner) emitCamera() {
	a := r.animator
	pose := a.Pose()
	text := fmt.Sprintf("camera %s position=%s look_at=%s", a.Preset(),
		formatVec(pose.Position, 3), formatVec(pose.LookAt, 3))
	if a.Active() {
		text += fmt.Sprintf(" moving=%.0f%%", a.Progress()*100)
	}
	r.emit(cameraRecord{
		Event:    "camera",
		Preset:   a.Preset(),
		Pose:     pose,
		Moving:   a.Active(),
		Progress: a.Progress(),
	}, text)
}

func (r *Runner) emitFrame(f scene.Frame) {
	var b strings.Builder
	fmt.Fprintf(&b, "frame %d base=%s camera=%s->%s", f.Seq, f.BaseColor,
		formatVec(f.Camera.Position, 3), formatVec(f.Camera.LookAt, 3))
	if f.Editing {
		fmt.Fprintf(&b, " editing mode=%s", f.Mode)
		if !f.Active.IsNone() {
			fmt.Fprintf(&b, " active=%s", f.Active)
		}
	}
	for _, p := range f.Parts {
		fmt.Fprintf(&b, "\n  %-10s %-12s position=%s rotation=%s scale=%s", p.Category, p.PartID,
			formatVec(p.Transform.Position, types.OffsetPrecision),
			formatVec(p.Transform.Rotation, types.RotationPrecision),
			formatVec(p.Transform.Scale, types.ScalePrecision))
		if p.Node != nil && p.Node.Placeholder {
			b.WriteString(" placeholder")
		}
		if p.Error != "" {
			fmt.Fprintf(&b, " error=%q", p.Error)
		}
	}
	r.emit(frameRecord{Event: "frame", Frame: f}, b.String())
}

func formatVec(v mgl64.Vec3, places int) string {
	v = types.RoundVec(v, places)
	return fmt.Sprintf("[%.*f %.*f %.*f]", places, v[0], places, v[1], places, v[2])
}
