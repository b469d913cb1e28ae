package cli

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/configurator/internal/asset"
	"github.com/mesh-intelligence/configurator/internal/catalog"
	"github.com/mesh-intelligence/configurator/internal/script"
	"github.com/mesh-intelligence/configurator/internal/sqlite"
	"github.com/mesh-intelligence/configurator/pkg/types"
)

func newSessionCmd() *cobra.Command {
	var (
		watch     bool
		keepGoing bool
	)
	cmd := &cobra.Command{
		Use:   "session [script]",
		Short: "Run a configurator session from a script file or stdin",
		Long: `Session builds a configurator over the catalog and executes one command
per line from the script file, or from stdin when no file (or "-") is given.

Commands:
  select <category> <part-id>   put a catalog part into the build
  clear <category>              remove a category from the build
  edit on|off|toggle            enter or leave edit mode
  focus <category>              make a selected category the active part
  mode translate|rotate|scale   set the gizmo mode
  key <key>                     press a key (w, e, r switch modes)
  drag x y z                    drag the gizmo component of the current mode
  drag px py pz rx ry rz sx sy sz
  commit                        store the last delta as the part's override
  camera <preset>               move the camera (overview, front, rear, side)
  tick <duration>               advance time, e.g. "tick 1.2s"
  color <swatch|#hex>           set the receiver colour
  frame                         print the current frame
  status                        print the edit state and camera
  screenshot                    print the screenshot file name

Committed overrides are saved to the data directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd, args, watch, keepGoing)
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "reload the catalog when its file changes")
	cmd.Flags().BoolVar(&keepGoing, "keep-going", false, "report failing lines and continue")
	return cmd
}

func runSession(cmd *cobra.Command, args []string, watch, keepGoing bool) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	backend, err := attachBackend(s)
	if err != nil {
		return err
	}
	defer backend.Detach()

	cat, err := loadCatalog(s, backend)
	if err != nil {
		return err
	}

	in := cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open script: %w", err)
		}
		defer f.Close()
		in = f
	}

	ctx, cancel := context.WithCancel(cmd.Context())

	var reload chan *catalog.Catalog
	var wg sync.WaitGroup
	if watch {
		reload = make(chan *catalog.Catalog, 1)
		wg.Add(1)
		go func() {
			defer wg.Done()
			watchCatalog(ctx, s, backend, reload)
		}()
	}
	defer wg.Wait()
	defer cancel()

	runner, err := script.New(cat, script.Options{
		Out:             cmd.OutOrStdout(),
		JSON:            flags.jsonMode,
		ContinueOnError: keepGoing,
		Loader:          asset.NewFileLoader(s.config.AssetsDir),
		Overrides:       backend,
		CameraDuration:  s.config.Camera.Duration,
		FrameInterval:   s.config.Camera.FrameInterval(),
		BaseColor:       s.config.BaseColor,
		Logger:          s.logger,
		Reload:          reload,
	})
	if err != nil {
		return err
	}
	defer runner.Close()

	if err := runner.Run(ctx, in); err != nil {
		return fmt.Errorf("session: %w", err)
	}
	return nil
}

// watchCatalog feeds reloaded catalogs, with committed overrides merged,
// into reload. Only the newest pending catalog is kept.
func watchCatalog(ctx context.Context, s *settings, backend *sqlite.Backend, reload chan *catalog.Catalog) {
	err := catalog.Watch(ctx, s.config.Catalog, s.logger, func(cat *catalog.Catalog, err error) {
		if err != nil {
			s.logger.Warn("catalog reload failed, keeping previous catalog", "error", err)
			return
		}
		if overrides, err := backend.ListOverrides(types.CategoryNone); err == nil {
			cat = cat.WithOverrides(overrides)
		}
		for {
			select {
			case reload <- cat:
				return
			default:
				select {
				case <-reload:
				default:
				}
			}
		}
	})
	if err != nil {
		s.logger.Warn("catalog watcher stopped", "error", err)
	}
}
