package engine

import (
	"context"
	"fmt"
)

// Violation describes one invariant breach found by Audit.
type Violation struct {
	// Code is the category of the breach (REDUCED and distinctness breaches
	// use INVARIANT_VIOLATION, ceiling breaches CEILING_EXCEEDED).
	Code ErrorCode `json:"code"`

	// ItemID is the offending item.
	ItemID string `json:"item_id"`

	// Message describes the breach.
	Message string `json:"message"`
}

// Audit verifies the collection's key discipline: every stored key is
// reduced with q > 0, within the ceiling, strictly ascending, and distinct
// both as an exact fraction and as a float64 quotient.
//
// Audit never mutates; it reports what it finds. A non-empty result on a
// collection only ever written by this engine indicates a configuration
// mismatch (e.g. a wider ceiling elsewhere) or external writes.
func (e *Engine) Audit(ctx context.Context, collection string) ([]Violation, error) {
	collection = CanonicalID(collection)

	entries, err := e.store.ReadAllOrdered(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("read collection %s: %w", collection, err)
	}

	var violations []Violation
	floats := make(map[float64]string, len(entries))

	for i, en := range entries {
		if err := en.Key.Validate(); err != nil {
			violations = append(violations, Violation{
				Code:    ErrCodeInvariantViolation,
				ItemID:  en.ItemID,
				Message: err.Error(),
			})
			continue
		}
		if en.Key.Q == 0 {
			violations = append(violations, Violation{
				Code:    ErrCodeInvariantViolation,
				ItemID:  en.ItemID,
				Message: "infinity sentinel stored as a key",
			})
			continue
		}

		if en.Key.P > e.ceiling || en.Key.Q > e.ceiling {
			violations = append(violations, Violation{
				Code:    ErrCodeCeilingExceeded,
				ItemID:  en.ItemID,
				Message: fmt.Sprintf("key %s exceeds ceiling %d", en.Key, e.ceiling),
			})
		}

		if i > 0 {
			prev := entries[i-1]
			if c := prev.Key.Cmp(en.Key); c >= 0 {
				violations = append(violations, Violation{
					Code:    ErrCodeInvariantViolation,
					ItemID:  en.ItemID,
					Message: fmt.Sprintf("key %s not strictly above predecessor %s (item %s)", en.Key, prev.Key, prev.ItemID),
				})
			}
		}

		f := en.Key.Float()
		if other, dup := floats[f]; dup {
			violations = append(violations, Violation{
				Code:    ErrCodeInvariantViolation,
				ItemID:  en.ItemID,
				Message: fmt.Sprintf("float64 quotient of %s collides with item %s", en.Key, other),
			})
		}
		floats[f] = en.ItemID
	}

	return violations, nil
}
