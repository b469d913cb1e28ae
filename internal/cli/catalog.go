package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/configurator/internal/catalog"
	"github.com/mesh-intelligence/configurator/pkg/types"
)

// catalogPartJSON is one catalog part in JSON output.
type catalogPartJSON struct {
	Category types.Category `json:"category"`
	types.PartDefinition
}

func newCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog [category]",
		Short: "List catalog parts with committed overrides applied",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCatalog,
	}
}

func runCatalog(cmd *cobra.Command, args []string) error {
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

	sections := cat.Sections()
	if len(args) == 1 {
		sec, ok := cat.Section(types.Category(args[0]))
		if !ok {
			return fmt.Errorf("category %q: %w", args[0], types.ErrUnknownCategory)
		}
		sections = []catalog.Section{sec}
	}

	if flags.jsonMode {
		parts := []catalogPartJSON{}
		for _, sec := range sections {
			for _, p := range sec.Parts {
				parts = append(parts, catalogPartJSON{Category: sec.Category, PartDefinition: p})
			}
		}
		return printJSON(cmd, parts)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tID\tNAME\tMODEL\tOVERRIDE")
	for _, sec := range sections {
		for _, p := range sec.Parts {
			override := "-"
			if p.HasOverride() {
				override = "yes"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", sec.Category, p.ID, p.Name, p.Model, override)
		}
	}
	return w.Flush()
}
