package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize configurator directories",
		Long: `Create the configuration directory with a default config.yaml, write a
starter parts catalog if none exists and initialize the override store in
the data directory.`,
		Args: cobra.NoArgs,
		RunE: runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	wrote, err := writeCatalogIfMissing(s.config.Catalog)
	if err != nil {
		return systemError("write catalog: %w", err)
	}
	if wrote {
		s.logger.Info("starter catalog written", "path", s.config.Catalog)
	}

	backend, err := attachBackend(s)
	if err != nil {
		return err
	}
	if err := backend.Detach(); err != nil {
		return systemError("finalize override store: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Configurator initialized successfully")
	fmt.Fprintln(out, "  config: ", s.configDir)
	fmt.Fprintln(out, "  catalog:", s.config.Catalog)
	fmt.Fprintln(out, "  data:   ", s.config.DataDir)
	return nil
}

// writeCatalogIfMissing writes the starter catalog to path unless a file
// already exists there.
func writeCatalogIfMissing(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, err
	}
	return true, os.WriteFile(path, starterCatalog, 0o644)
}
