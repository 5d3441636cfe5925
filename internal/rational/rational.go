package rational

import (
	"fmt"
	"math"
	"math/bits"
)

// Rational is a non-negative fraction P/Q used as an ordering key.
//
// Stored keys are always reduced (gcd(P,Q) = 1) with Q > 0. Two special
// values participate in computations but are never stored:
//
//   - Infinity (1, 0): the open upper boundary ("no item after this one")
//   - Floor (0, 1): the open lower boundary ("no item before this one")
//
// Comparison is by cross-multiplication in 128-bit intermediates, never by
// floating division. Float() exists only for callers that need a scalar sort
// key; the ceiling discipline in the engine keeps Float() collision-free.
type Rational struct {
	P int64 // numerator, >= 0
	Q int64 // denominator, >= 0; Q == 0 only for Infinity
}

// Floor is the open lower boundary. Valid as a solver bound, never stored.
var Floor = Rational{P: 0, Q: 1}

// Infinity is the open upper boundary. Valid as a solver bound, never stored.
var Infinity = Rational{P: 1, Q: 0}

// New returns the reduced form of p/q.
// Returns an error if p or q is negative, or if q is zero.
func New(p, q int64) (Rational, error) {
	if p < 0 || q <= 0 {
		return Rational{}, fmt.Errorf("invalid rational %d/%d: numerator must be >= 0 and denominator > 0", p, q)
	}
	if g := GCD(p, q); g > 1 {
		p /= g
		q /= g
	}
	return Rational{P: p, Q: q}, nil
}

// GCD returns the greatest common divisor of two non-negative integers.
// GCD(0, n) == n.
func GCD(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// IsInfinity reports whether r is the +infinity sentinel (1, 0).
func (r Rational) IsInfinity() bool {
	return r.Q == 0
}

// IsZero reports whether r is the open lower boundary 0/1.
func (r Rational) IsZero() bool {
	return r.P == 0 && r.Q != 0
}

// Validate checks the representation invariants:
// P >= 0, Q >= 0, Q == 0 only with P == 1 (infinity), gcd(P, Q) == 1.
func (r Rational) Validate() error {
	if r.P < 0 || r.Q < 0 {
		return fmt.Errorf("rational %d/%d: negative component", r.P, r.Q)
	}
	if r.Q == 0 {
		if r.P != 1 {
			return fmt.Errorf("rational %d/0: only 1/0 may have a zero denominator", r.P)
		}
		return nil
	}
	if r.P == 0 {
		if r.Q != 1 {
			return fmt.Errorf("rational 0/%d: zero must be represented as 0/1", r.Q)
		}
		return nil
	}
	if g := GCD(r.P, r.Q); g != 1 {
		return fmt.Errorf("rational %d/%d: not in lowest terms (gcd %d)", r.P, r.Q, g)
	}
	return nil
}

// Cmp compares r and o as exact rationals, returning -1, 0, or +1.
//
// Cross products are computed in 128 bits via bits.Mul64, so comparison is
// exact for any non-negative int64 components. The infinity sentinel (1, 0)
// falls out of the cross-multiplication naturally: x/y vs 1/0 compares
// x*0 = 0 against 1*y, so every finite value sorts below infinity.
func (r Rational) Cmp(o Rational) int {
	lhsHi, lhsLo := bits.Mul64(uint64(r.P), uint64(o.Q))
	rhsHi, rhsLo := bits.Mul64(uint64(o.P), uint64(r.Q))
	if lhsHi != rhsHi {
		if lhsHi < rhsHi {
			return -1
		}
		return 1
	}
	if lhsLo != rhsLo {
		if lhsLo < rhsLo {
			return -1
		}
		return 1
	}
	return 0
}

// Less reports whether r < o as exact rationals.
func (r Rational) Less(o Rational) bool {
	return r.Cmp(o) < 0
}

// Float returns the float64 quotient P/Q.
//
// Only meaningful as a scalar sort key: under the engine's ceiling the
// quotient is guaranteed distinct across keys, but arithmetic on it is not
// exact. Infinity returns +Inf.
func (r Rational) Float() float64 {
	if r.Q == 0 {
		return math.Inf(1)
	}
	return float64(r.P) / float64(r.Q)
}

// String renders the fraction as "P/Q" (infinity as "1/0").
func (r Rational) String() string {
	return fmt.Sprintf("%d/%d", r.P, r.Q)
}
