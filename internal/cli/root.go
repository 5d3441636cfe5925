package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/ordinal/internal/engine"
	"github.com/roach88/ordinal/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	DB         string // database path; overrides the config file
	ConfigPath string // optional CUE config file
	Collection string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the ordinal CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "ordinal",
		Short: "Ordinal - rational position keys for user-defined order",
		Long: `Ordinal maintains user-defined order over collections of items.
Each item carries a reduced-fraction position key; inserting between two
items always finds the simplest fraction between their keys, and keys are
renormalized to a dense baseline when they grow past the ceiling.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			configureLogging(opts.Verbose)
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.DB, "db", "", "database path (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "CUE config file")
	cmd.PersistentFlags().StringVarP(&opts.Collection, "collection", "c", "default", "collection to operate on")

	// Add subcommands
	cmd.AddCommand(NewInitCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewMoveCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewRenormalizeCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// configureLogging routes slog to stderr so JSON output stays clean.
// Verbose lowers the level to Debug.
func configureLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// resolveDBPath returns the database path: the --db flag when set,
// otherwise the config file's (or default) database setting.
func resolveDBPath(opts *RootOptions) (string, error) {
	if opts.DB != "" {
		return opts.DB, nil
	}
	cfg, err := LoadConfig(opts.ConfigPath)
	if err != nil {
		return "", WrapExitError(ExitCommandError, "failed to load config", err)
	}
	return cfg.Database, nil
}

// openEngine resolves the config, opens the database and builds the engine.
// The caller must Close the returned store.
func openEngine(opts *RootOptions) (*store.Store, *engine.Engine, error) {
	cfg, err := LoadConfig(opts.ConfigPath)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}

	path := cfg.Database
	if opts.DB != "" {
		path = opts.DB
	}

	st, err := store.Open(path)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, fmt.Sprintf("failed to open database %s", path), err)
	}

	eng, err := engine.New(st,
		engine.WithCeiling(cfg.Ceiling),
		engine.WithMaxDescentSteps(cfg.MaxDescentSteps),
		engine.WithMaxRetries(cfg.MaxRetries),
	)
	if err != nil {
		st.Close()
		return nil, nil, WrapExitError(ExitCommandError, "failed to create engine", err)
	}

	return st, eng, nil
}
