package harness

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/ordinal/internal/engine"
	"github.com/roach88/ordinal/internal/rational"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
	Order    []string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFinal order:\n")
	for i, line := range e.Order {
		fmt.Fprintf(&buf, "  [%d] %s\n", i+1, line)
	}

	return buf.String()
}

// EvaluateAssertions checks every assertion against the executed result.
// Returns one message per failed assertion; an empty slice means all held.
func EvaluateAssertions(result *Result, scenario *Scenario) []string {
	ceiling := scenario.Ceiling
	if ceiling == 0 {
		ceiling = engine.DefaultCeiling
	}

	var errs []string
	for _, a := range scenario.Assertions {
		var err error
		switch a.Type {
		case AssertOrder:
			err = assertOrder(result, a)
		case AssertKey:
			err = assertKey(result, a)
		case AssertDistinctKeys:
			err = assertDistinctKeys(result)
		case AssertReducedKeys:
			err = assertReducedKeys(result)
		case AssertWithinCeiling:
			err = assertWithinCeiling(result, ceiling)
		case AssertRenormalizeCount:
			err = assertRenormalizeCount(result, a)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

// assertOrder checks the collection holds exactly these items in this order.
func assertOrder(result *Result, a Assertion) error {
	actual := make([]string, len(result.finalEntries))
	for i, en := range result.finalEntries {
		actual[i] = en.ItemID
	}

	match := len(actual) == len(a.Items)
	for i := 0; match && i < len(actual); i++ {
		match = actual[i] == a.Items[i]
	}
	if match {
		return nil
	}
	return &AssertionError{
		Type:     AssertOrder,
		Expected: fmt.Sprintf("%v", a.Items),
		Actual:   fmt.Sprintf("%v", actual),
		Order:    result.FinalOrder,
	}
}

// assertKey checks one item holds exactly the given "P/Q" key.
func assertKey(result *Result, a Assertion) error {
	want, err := parseKey(a.Key)
	if err != nil {
		return fmt.Errorf("key assertion for %s: %w", a.Item, err)
	}

	for _, en := range result.finalEntries {
		if en.ItemID != a.Item {
			continue
		}
		if en.Key == want {
			return nil
		}
		return &AssertionError{
			Type:     AssertKey,
			Expected: fmt.Sprintf("%s holds %s", a.Item, want),
			Actual:   fmt.Sprintf("%s holds %s", a.Item, en.Key),
			Order:    result.FinalOrder,
		}
	}
	return &AssertionError{
		Type:     AssertKey,
		Expected: fmt.Sprintf("%s holds %s", a.Item, want),
		Actual:   fmt.Sprintf("%s is not in the collection", a.Item),
		Order:    result.FinalOrder,
	}
}

// assertDistinctKeys checks no two items share a key, exactly or by float
// quotient.
func assertDistinctKeys(result *Result) error {
	seen := make(map[float64]string, len(result.finalEntries))
	for _, en := range result.finalEntries {
		if other, dup := seen[en.Key.Float()]; dup {
			return &AssertionError{
				Type:     AssertDistinctKeys,
				Expected: "all keys distinct (exact and float quotient)",
				Actual:   fmt.Sprintf("%s and %s collide at quotient %v", other, en.ItemID, en.Key.Float()),
				Order:    result.FinalOrder,
			}
		}
		seen[en.Key.Float()] = en.ItemID
	}
	return nil
}

// assertReducedKeys checks every stored key is a well-formed reduced
// fraction.
func assertReducedKeys(result *Result) error {
	for _, en := range result.finalEntries {
		if err := en.Key.Validate(); err != nil {
			return &AssertionError{
				Type:     AssertReducedKeys,
				Expected: "all keys in lowest terms",
				Actual:   fmt.Sprintf("%s holds %s: %v", en.ItemID, en.Key, err),
				Order:    result.FinalOrder,
			}
		}
	}
	return nil
}

// assertWithinCeiling checks every key's integers are at or under the
// scenario's ceiling.
func assertWithinCeiling(result *Result, ceiling int64) error {
	for _, en := range result.finalEntries {
		if en.Key.P > ceiling || en.Key.Q > ceiling {
			return &AssertionError{
				Type:     AssertWithinCeiling,
				Expected: fmt.Sprintf("all key integers at or under %d", ceiling),
				Actual:   fmt.Sprintf("%s holds %s", en.ItemID, en.Key),
				Order:    result.FinalOrder,
			}
		}
	}
	return nil
}

// assertRenormalizeCount checks the trace records exactly the expected
// number of renormalizations, triggered and explicit combined.
func assertRenormalizeCount(result *Result, a Assertion) error {
	count := 0
	for _, ev := range result.Trace {
		if ev.Renormalized {
			count++
		}
	}
	if count == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertRenormalizeCount,
		Expected: fmt.Sprintf("%d renormalizations", a.Count),
		Actual:   fmt.Sprintf("%d renormalizations", count),
		Order:    result.FinalOrder,
	}
}

// parseKey parses a "P/Q" key string.
func parseKey(s string) (rational.Rational, error) {
	ps, qs, ok := strings.Cut(s, "/")
	if !ok {
		return rational.Rational{}, fmt.Errorf("malformed key %q: want \"P/Q\"", s)
	}
	p, err := strconv.ParseInt(ps, 10, 64)
	if err != nil {
		return rational.Rational{}, fmt.Errorf("malformed key %q: %w", s, err)
	}
	q, err := strconv.ParseInt(qs, 10, 64)
	if err != nil {
		return rational.Rational{}, fmt.Errorf("malformed key %q: %w", s, err)
	}
	return rational.New(p, q)
}
