package cli

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/token"

	"github.com/roach88/ordinal/internal/engine"
)

// Config holds the engine and storage settings the CLI runs with.
type Config struct {
	Database        string `json:"database"`
	Ceiling         int64  `json:"ceiling"`
	MaxDescentSteps int    `json:"maxDescentSteps"`
	MaxRetries      int    `json:"maxRetries"`
}

// configSchema constrains and defaults the config file. A file only needs
// the fields it overrides.
const configSchema = `
#Config: {
	database:        string & !="" | *"ordinal.db"
	ceiling:         int & >=2 & <=1073741823 | *10000000
	maxDescentSteps: int & >0 | *1000000
	maxRetries:      int & >0 | *5
}
`

// LoadError represents an error that occurred during config loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// DefaultConfig returns the settings used when no config file is given.
func DefaultConfig() *Config {
	return &Config{
		Database:        "ordinal.db",
		Ceiling:         engine.DefaultCeiling,
		MaxDescentSteps: engine.DefaultMaxDescentSteps,
		MaxRetries:      engine.DefaultMaxRetries,
	}
}

// LoadConfig reads and validates a CUE config file. An empty path yields
// the defaults. The file is unified with the #Config schema, so unknown
// fields and out-of-range values are rejected with positions.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("config file not found: %s", path)}
		}
		return nil, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("error reading config: %v", err)}
	}

	ctx := cuecontext.New()

	schema := ctx.CompileString(configSchema)
	if err := schema.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building config schema: %v", err)}
	}

	value := ctx.CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("parsing config: %v", err)}
	}

	unified := schema.LookupPath(cue.ParsePath("#Config")).Unify(value)
	if err := unified.Validate(); err != nil {
		return nil, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("validating config: %v", err)}
	}

	var cfg Config
	if err := unified.Decode(&cfg); err != nil {
		return nil, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("decoding config: %v", err)}
	}
	return &cfg, nil
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeWriteFailed = "E007" // File write error
)
