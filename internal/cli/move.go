package cli

import (
	"github.com/spf13/cobra"
)

// MoveOptions holds flags for the move command.
type MoveOptions struct {
	*RootOptions
	Before  string
	After   string
	Prepend bool
}

// NewMoveCommand creates the move command.
func NewMoveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MoveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "move <item-id>",
		Short: "Move an item within the collection's order",
		Long: `Move an item to a new position relative to an anchor item.

The item keeps its identity; only its position key changes. Moving an item
next to itself is a no-op. With no anchor flag the item moves to the end.

Exit codes:
  0 - Item moved
  2 - Command error (anchor not found, bad flags, etc.)

Examples:
  ordinal move task-42 --before task-7
  ordinal move task-42 --after task-9
  ordinal move task-42 --prepend
  ordinal move task-42`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlace(opts.RootOptions, cmd, args[0], opts.Before, opts.After, opts.Prepend)
		},
	}

	cmd.Flags().StringVar(&opts.Before, "before", "", "move directly before this item")
	cmd.Flags().StringVar(&opts.After, "after", "", "move directly after this item")
	cmd.Flags().BoolVar(&opts.Prepend, "prepend", false, "move to the start of the order")

	return cmd
}
