package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RenormalizeReport is the JSON payload of the renormalize command.
type RenormalizeReport struct {
	Collection string `json:"collection"`
	Items      int    `json:"items"`
}

// NewRenormalizeCommand creates the renormalize command.
func NewRenormalizeCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "renormalize",
		Short: "Rewrite the collection's keys to the dense baseline",
		Long: `Reassign every key in the collection to the dense baseline
(odd numerators over denominator 2), preserving the current order.

This happens automatically when a key crosses the ceiling; run it manually
to compact keys after heavy reordering.

Examples:
  ordinal renormalize
  ordinal renormalize -c groceries`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, eng, err := openEngine(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()

			ctx := cmd.Context()
			if err := eng.Renormalize(ctx, rootOpts.Collection); err != nil {
				return err
			}

			entries, err := st.ReadAllOrdered(ctx, rootOpts.Collection)
			if err != nil {
				return fmt.Errorf("failed to read collection %s: %w", rootOpts.Collection, err)
			}

			f := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout(), Verbose: rootOpts.Verbose}
			if rootOpts.Format == "json" {
				return f.Success(RenormalizeReport{Collection: rootOpts.Collection, Items: len(entries)})
			}
			return f.Success(fmt.Sprintf("Renormalized %d items in %s", len(entries), rootOpts.Collection))
		},
	}

	return cmd
}
