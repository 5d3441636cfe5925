package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ListedItem is one row of list output.
type ListedItem struct {
	Rank   int    `json:"rank"`
	ItemID string `json:"item_id"`
	Key    string `json:"key"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the collection's items in order",
		Long: `List every item in the collection, ascending by position key.

Examples:
  ordinal list
  ordinal list -c groceries --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := openEngine(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()

			entries, err := st.ReadAllOrdered(cmd.Context(), rootOpts.Collection)
			if err != nil {
				return fmt.Errorf("failed to read collection %s: %w", rootOpts.Collection, err)
			}

			items := make([]ListedItem, len(entries))
			for i, en := range entries {
				items[i] = ListedItem{Rank: i + 1, ItemID: en.ItemID, Key: en.Key.String()}
			}

			f := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout(), Verbose: rootOpts.Verbose}
			if rootOpts.Format == "json" {
				return f.Success(items)
			}

			w := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintf(w, "Collection %s is empty.\n", rootOpts.Collection)
				return nil
			}
			for _, it := range items {
				fmt.Fprintf(w, "%4d. %s (%s)\n", it.Rank, it.ItemID, it.Key)
			}
			return nil
		},
	}

	return cmd
}
