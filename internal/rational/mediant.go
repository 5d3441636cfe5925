package rational

import (
	"errors"
	"fmt"
)

// ErrDescentBudget is returned when a Stern-Brocot descent exceeds its step
// budget. The descent length is bounded by the sum of the continued-fraction
// terms of the two bounds, so hitting the budget means the bounds carry
// integers far larger than the configured ceiling permits. That is a
// configuration error, not a data error.
var ErrDescentBudget = errors.New("stern-brocot descent exceeded step budget")

// ErrOverflow is returned when a mediant sum would exceed int64. Under the
// engine's ceiling discipline this is unreachable; seeing it means the
// ceiling was configured wider than the arithmetic width supports.
var ErrOverflow = errors.New("mediant arithmetic overflow")

// SimplestBetween returns the simplest fraction strictly between low and
// high: the shallowest node of the Stern-Brocot tree inside the open
// interval (low, high). The result is always in lowest terms; no gcd
// reduction is ever needed.
//
// Bounds: low must be finite (use Floor for "no lower bound"); high may be
// Infinity for "no upper bound". low < high is required.
//
// If low and high are exact Stern-Brocot neighbors (low.P*high.Q + 1 ==
// high.P*low.Q), their sum-mediant is the unique simplest intermediate and
// is returned without descending.
//
// maxSteps caps the descent loop; maxSteps <= 0 means no cap.
func SimplestBetween(low, high Rational, maxSteps int) (Rational, error) {
	if low.IsInfinity() {
		return Rational{}, fmt.Errorf("low bound must be finite, got %s", low)
	}
	if low.Cmp(high) >= 0 {
		return Rational{}, fmt.Errorf("bounds out of order: %s >= %s", low, high)
	}

	// Neighbor shortcut: the sum-mediant of tree neighbors is already the
	// shallowest intermediate.
	if low.P*high.Q+1 == high.P*low.Q {
		return mediant(low, high)
	}

	return descend(low, high, maxSteps)
}

// descend walks the Stern-Brocot tree from the root until a node falls
// strictly inside (low, high). Split out from SimplestBetween so tests can
// check the neighbor shortcut against the general descent.
func descend(low, high Rational, maxSteps int) (Rational, error) {
	// Descend from the tree root's implicit ancestors. The floor ancestor
	// tracks the greatest visited node <= low, the ceiling ancestor the
	// smallest visited node >= high.
	floor := Floor
	ceil := Infinity
	for steps := 0; ; steps++ {
		if maxSteps > 0 && steps >= maxSteps {
			return Rational{}, fmt.Errorf("between %s and %s after %d steps: %w", low, high, steps, ErrDescentBudget)
		}
		m, err := mediant(floor, ceil)
		if err != nil {
			return Rational{}, err
		}
		switch {
		case m.Cmp(low) <= 0:
			floor = m // descend right
		case !high.IsInfinity() && m.Cmp(high) >= 0:
			ceil = m // descend left
		default:
			return m, nil
		}
	}
}

// mediant returns the sum-mediant (a.P+b.P)/(a.Q+b.Q).
// Mediants of reduced tree neighbors are reduced by construction.
func mediant(a, b Rational) (Rational, error) {
	p := a.P + b.P
	q := a.Q + b.Q
	if p < 0 || q < 0 {
		return Rational{}, fmt.Errorf("mediant of %s and %s: %w", a, b, ErrOverflow)
	}
	return Rational{P: p, Q: q}, nil
}
