package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/configurator/pkg/types"
)

func newOverridesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "overrides",
		Short: "Inspect and remove committed transform overrides",
	}
	cmd.AddCommand(newOverridesListCmd())
	cmd.AddCommand(newOverridesDeleteCmd())
	return cmd
}

func newOverridesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [category]",
		Short: "List committed overrides",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			backend, err := attachBackend(s)
			if err != nil {
				return err
			}
			defer backend.Detach()

			var c types.Category
			if len(args) == 1 {
				c = types.Category(args[0])
			}
			overrides, err := backend.ListOverrides(c)
			if err != nil {
				return systemError("list overrides: %w", err)
			}

			if flags.jsonMode {
				if overrides == nil {
					overrides = []types.TransformOverride{}
				}
				return printJSON(cmd, overrides)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CATEGORY\tPART\tOFFSET\tROTATION\tSCALE\tCREATED")
			for _, o := range overrides {
				fmt.Fprintf(w, "%s\t%s\t%v\t%v\t%v\t%s\n", o.Category, o.PartID,
					o.Delta.Offset, o.Delta.Rotation, o.Delta.Scale,
					o.CreatedAt.Format("2006-01-02 15:04:05"))
			}
			return w.Flush()
		},
	}
}

func newOverridesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <category> <part-id>",
		Short: "Remove the committed override of a part",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			backend, err := attachBackend(s)
			if err != nil {
				return err
			}
			defer backend.Detach()

			c, partID := types.Category(args[0]), args[1]
			if err := backend.DeleteOverride(c, partID); err != nil {
				if errors.Is(err, types.ErrNotFound) {
					return fmt.Errorf("no override for %s/%s: %w", c, partID, err)
				}
				return systemError("delete override: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted override %s/%s\n", c, partID)
			return nil
		},
	}
}
