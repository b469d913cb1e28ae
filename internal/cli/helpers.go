package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/configurator/internal/catalog"
	"github.com/mesh-intelligence/configurator/internal/sqlite"
	"github.com/mesh-intelligence/configurator/pkg/types"
)

// attachBackend creates a SQLite override store for the configured data
// directory and attaches it. The caller must defer backend.Detach().
func attachBackend(s *settings) (*sqlite.Backend, error) {
	backend := sqlite.NewBackend()
	if err := backend.Attach(s.config); err != nil {
		return nil, systemError("attach override store: %w", err)
	}
	return backend, nil
}

// loadCatalog reads the configured catalog. With a backend, committed
// overrides are merged into the parts.
func loadCatalog(s *settings, backend *sqlite.Backend) (*catalog.Catalog, error) {
	cat, err := catalog.Load(s.config.Catalog)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("catalog %s not found (run configurator init or pass --catalog): %w", s.config.Catalog, err)
		}
		return nil, err
	}
	if backend == nil {
		return cat, nil
	}
	overrides, err := backend.ListOverrides(types.CategoryNone)
	if err != nil {
		return nil, systemError("list overrides: %w", err)
	}
	return cat.WithOverrides(overrides), nil
}

// printJSON writes v as indented JSON to the command's output.
func printJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return systemError("marshal output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
