package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create or upgrade the database",
		Long: `Create the ordinal database, applying schema and pragmas.

Safe to run repeatedly; an existing database is upgraded in place.

Examples:
  ordinal init
  ordinal init --db ./todos.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolveDBPath(rootOpts)
			if err != nil {
				return err
			}

			st, _, err := openEngine(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()

			f := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout(), Verbose: rootOpts.Verbose}
			return f.Success(fmt.Sprintf("Initialized database at %s", path))
		},
	}

	return cmd
}
