package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/roach88/ordinal/internal/engine"
)

// AddOptions holds flags for the add command.
type AddOptions struct {
	*RootOptions
	Before  string
	After   string
	Prepend bool
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add [item-id]",
		Short: "Add an item to the collection's order",
		Long: `Add an item, positioned relative to an anchor item.

With no anchor flag the item goes to the end of the order. When item-id is
omitted a UUIDv7 is generated.

Exit codes:
  0 - Item placed
  2 - Command error (missing anchor, bad flags, etc.)

Examples:
  ordinal add task-42
  ordinal add task-43 --after task-42
  ordinal add task-41 --before task-42
  ordinal add --prepend
  ordinal add -c groceries milk`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			itemID := ""
			if len(args) == 1 {
				itemID = args[0]
			} else {
				id, err := uuid.NewV7()
				if err != nil {
					return fmt.Errorf("failed to generate item ID: %w", err)
				}
				itemID = id.String()
			}
			return runPlace(opts.RootOptions, cmd, itemID, opts.Before, opts.After, opts.Prepend)
		},
	}

	cmd.Flags().StringVar(&opts.Before, "before", "", "place directly before this item")
	cmd.Flags().StringVar(&opts.After, "after", "", "place directly after this item")
	cmd.Flags().BoolVar(&opts.Prepend, "prepend", false, "place at the start of the order")

	return cmd
}

// runPlace executes one placement and prints the result. Shared by add and
// move, which differ only in how they pick the item ID.
func runPlace(rootOpts *RootOptions, cmd *cobra.Command, itemID, beforeID, afterID string, prepend bool) error {
	anchor, before, err := resolvePosition(beforeID, afterID, prepend)
	if err != nil {
		return err
	}

	st, eng, err := openEngine(rootOpts)
	if err != nil {
		return err
	}
	defer st.Close()

	res, err := eng.Place(cmd.Context(), rootOpts.Collection, itemID, anchor, before)
	if err != nil {
		if engine.IsNotFound(err) {
			return WrapExitError(ExitCommandError, fmt.Sprintf("anchor item not found in collection %s", rootOpts.Collection), err)
		}
		return err
	}

	f := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout(), Verbose: rootOpts.Verbose}
	if rootOpts.Format == "json" {
		return f.Success(res)
	}

	switch {
	case res.NoOp:
		return f.Success(fmt.Sprintf("%s already anchored to itself; nothing to do", res.ItemID))
	case res.Renormalized:
		return f.Success(fmt.Sprintf("Placed %s at %s (collection renormalized)", res.ItemID, res.Key))
	default:
		return f.Success(fmt.Sprintf("Placed %s at %s", res.ItemID, res.Key))
	}
}

// resolvePosition translates the anchor flags into Place arguments.
func resolvePosition(beforeID, afterID string, prepend bool) (anchor string, before bool, err error) {
	set := 0
	if beforeID != "" {
		set++
	}
	if afterID != "" {
		set++
	}
	if prepend {
		set++
	}
	if set > 1 {
		return "", false, NewExitError(ExitCommandError, "--before, --after and --prepend are mutually exclusive")
	}

	switch {
	case beforeID != "":
		return beforeID, true, nil
	case afterID != "":
		return afterID, false, nil
	default:
		return "", prepend, nil
	}
}
