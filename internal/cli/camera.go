package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/configurator/internal/camera"
	"github.com/mesh-intelligence/configurator/pkg/types"
)

// cameraSample is one sampled frame of a camera move.
type cameraSample struct {
	Frame int           `json:"frame"`
	At    time.Duration `json:"at_ns"`
	types.CameraPose
}

func newCameraCmd() *cobra.Command {
	var from string
	cmd := &cobra.Command{
		Use:   "camera <preset>",
		Short: "Sample a camera move to a preset frame by frame",
		Long: `Camera moves from the --from preset to the named preset and prints the
eased camera pose at every frame of the configured frame rate. Unknown
preset names fall back to overview.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}

			start, fromPreset, ok := camera.PresetPose(from)
			if !ok {
				s.logger.Warn("unknown preset, using overview", "preset", from)
			}
			pose := start
			animator := camera.New(&pose, camera.WithDuration(s.config.Camera.Duration))
			to := animator.SetPreset(args[0])
			if _, ok := types.ParsePreset(args[0]); !ok {
				s.logger.Warn("unknown preset, using overview", "preset", args[0])
			}

			samples := sampleMove(animator, s.config.Camera.FrameInterval())
			samples = append([]cameraSample{{CameraPose: start}}, samples...)

			if flags.jsonMode {
				return printJSON(cmd, struct {
					From    types.CameraPreset `json:"from"`
					To      types.CameraPreset `json:"to"`
					Samples []cameraSample     `json:"samples"`
				}{fromPreset, to, samples})
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "# %s -> %s over %s\n", fromPreset, to, animator.Duration())
			fmt.Fprintln(w, "FRAME\tTIME\tPOSITION\tLOOK AT")
			for _, smp := range samples {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", smp.Frame, smp.At,
					formatPose(smp.Position), formatPose(smp.LookAt))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&from, "from", string(types.PresetOverview), "preset the camera starts at")
	return cmd
}

// sampleMove ticks animator at interval until the move completes.
func sampleMove(animator *camera.Animator, interval time.Duration) []cameraSample {
	var samples []cameraSample
	var at time.Duration
	for frame := 1; animator.Active(); frame++ {
		at += interval
		pose := animator.Tick(interval)
		samples = append(samples, cameraSample{Frame: frame, At: at, CameraPose: pose})
	}
	return samples
}

func formatPose(v mgl64.Vec3) string {
	return fmt.Sprintf("(%.4f, %.4f, %.4f)", v[0], v[1], v[2])
}
