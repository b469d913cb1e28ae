package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/configurator/internal/anchor"
	"github.com/mesh-intelligence/configurator/internal/camera"
	"github.com/mesh-intelligence/configurator/pkg/types"
)

type anchorJSON struct {
	Category types.Category `json:"category"`
	Position mgl64.Vec3     `json:"position"`
}

type presetJSON struct {
	Preset types.CameraPreset `json:"preset"`
	types.CameraPose
}

func newAnchorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "anchors",
		Short: "List category anchor positions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table := anchor.Default()
			rows := []anchorJSON{}
			for _, c := range table.Categories() {
				rows = append(rows, anchorJSON{Category: c, Position: table.AnchorFor(c)})
			}
			if flags.jsonMode {
				return printJSON(cmd, rows)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CATEGORY\tX\tY\tZ")
			for _, r := range rows {
				fmt.Fprintf(w, "%s\t%g\t%g\t%g\n", r.Category, r.Position[0], r.Position[1], r.Position[2])
			}
			return w.Flush()
		},
	}
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List camera presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := []presetJSON{}
			for _, p := range types.Presets {
				pose, _, _ := camera.PresetPose(string(p))
				rows = append(rows, presetJSON{Preset: p, CameraPose: pose})
			}
			if flags.jsonMode {
				return printJSON(cmd, rows)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PRESET\tPOSITION\tLOOK AT")
			for _, r := range rows {
				fmt.Fprintf(w, "%s\t%v\t%v\n", r.Preset, r.Position, r.LookAt)
			}
			return w.Flush()
		},
	}
}
