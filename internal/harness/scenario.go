package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario: a sequence of ordering
// operations against one collection, plus assertions on the outcome.
type Scenario struct {
	// Name uniquely identifies this scenario (and its golden file).
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Collection is the collection all steps operate on.
	// Defaults to "default" when empty.
	Collection string `yaml:"collection,omitempty"`

	// Ceiling overrides the engine's integer ceiling for this scenario.
	// Zero means the engine default.
	Ceiling int64 `yaml:"ceiling,omitempty"`

	// Steps are executed in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final order and the trace.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one ordering operation. Exactly one of Append, Place or
// Renormalize must be set.
type Step struct {
	// Append names an item to place after the collection's last key.
	Append string `yaml:"append,omitempty"`

	// Place names an item to position relative to an anchor.
	Place string `yaml:"place,omitempty"`

	// Before / After anchor a Place step. At most one may be set; with
	// neither, an empty anchor prepends (Before semantics at the open end).
	Before string `yaml:"before,omitempty"`
	After  string `yaml:"after,omitempty"`

	// Prepend marks an anchorless Place as a prepend rather than an append.
	Prepend bool `yaml:"prepend,omitempty"`

	// Renormalize rewrites the whole collection to the dense baseline.
	Renormalize bool `yaml:"renormalize,omitempty"`

	// ExpectError, when set, requires the step to fail with an error whose
	// message contains this substring. The failure is traced, not fatal.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// Assertion validates the final state or the trace.
type Assertion struct {
	// Type selects the assertion; see the package documentation.
	Type string `yaml:"type"`

	// Items is the expected full order (used by "order").
	Items []string `yaml:"items,omitempty"`

	// Item and Key pin one item's exact key, written "P/Q" (used by "key").
	Item string `yaml:"item,omitempty"`
	Key  string `yaml:"key,omitempty"`

	// Count is the expected number of renormalizations
	// (used by "renormalize_count").
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertOrder            = "order"
	AssertKey              = "key"
	AssertDistinctKeys     = "distinct_keys"
	AssertReducedKeys      = "reduced_keys"
	AssertWithinCeiling    = "within_ceiling"
	AssertRenormalizeCount = "renormalize_count"
)

// LoadScenario reads and parses a scenario YAML file. Returns an error if
// the file doesn't exist, is malformed, contains unknown fields (typos), or
// is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}
	if s.Ceiling < 0 {
		return fmt.Errorf("ceiling must be non-negative")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateStep enforces the one-op-per-step rule.
func validateStep(index int, st *Step) error {
	ops := 0
	if st.Append != "" {
		ops++
	}
	if st.Place != "" {
		ops++
	}
	if st.Renormalize {
		ops++
	}
	if ops != 1 {
		return fmt.Errorf("steps[%d]: exactly one of append, place or renormalize is required", index)
	}

	if st.Place == "" {
		if st.Before != "" || st.After != "" || st.Prepend {
			return fmt.Errorf("steps[%d]: before/after/prepend only apply to place", index)
		}
		return nil
	}
	if st.Before != "" && st.After != "" {
		return fmt.Errorf("steps[%d]: before and after are mutually exclusive", index)
	}
	if st.Prepend && (st.Before != "" || st.After != "") {
		return fmt.Errorf("steps[%d]: prepend is for anchorless place only", index)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertOrder:
		if len(a.Items) == 0 {
			return fmt.Errorf("assertions[%d]: items list is required for order", index)
		}
	case AssertKey:
		if a.Item == "" || a.Key == "" {
			return fmt.Errorf("assertions[%d]: item and key are required for key", index)
		}
	case AssertDistinctKeys, AssertReducedKeys, AssertWithinCeiling:
		// No fields.
	case AssertRenormalizeCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for renormalize_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
