package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/ordinal/internal/engine"
)

// CheckReport is the JSON payload of the check command.
type CheckReport struct {
	Collection string             `json:"collection"`
	Items      int                `json:"items"`
	Violations []engine.Violation `json:"violations"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Audit the collection's ordering invariants",
		Long: `Audit every stored key: strictly ascending order, lowest terms,
ceiling bounds, and float-quotient distinctness.

Exit codes:
  0 - No violations
  1 - Violations found
  2 - Command error

Examples:
  ordinal check
  ordinal check -c groceries --format json`,
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
			violations, err := eng.Audit(ctx, rootOpts.Collection)
			if err != nil {
				return err
			}

			entries, err := st.ReadAllOrdered(ctx, rootOpts.Collection)
			if err != nil {
				return fmt.Errorf("failed to read collection %s: %w", rootOpts.Collection, err)
			}

			report := CheckReport{
				Collection: rootOpts.Collection,
				Items:      len(entries),
				Violations: violations,
			}

			f := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout(), Verbose: rootOpts.Verbose}
			if rootOpts.Format == "json" {
				if err := f.Success(report); err != nil {
					return err
				}
			} else {
				w := cmd.OutOrStdout()
				if len(violations) == 0 {
					fmt.Fprintf(w, "OK: %d items in %s, no violations\n", report.Items, report.Collection)
				} else {
					fmt.Fprintf(w, "%d violations in %s:\n", len(violations), report.Collection)
					for _, v := range violations {
						fmt.Fprintf(w, "  [%s] %s: %s\n", v.Code, v.ItemID, v.Message)
					}
				}
			}

			if len(violations) > 0 {
				return NewExitError(ExitFailure, fmt.Sprintf("%d violations found", len(violations)))
			}
			return nil
		},
	}

	return cmd
}
