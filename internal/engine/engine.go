package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/ordinal/internal/rational"
)

// Direction selects which way a neighbor read walks the collection.
type Direction int

const (
	// Forward walks toward larger keys.
	Forward Direction = iota
	// Backward walks toward smaller keys.
	Backward
)

// String returns the direction name for logging.
func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// Entry pairs an item identifier with its position key.
type Entry struct {
	ItemID string
	Key    rational.Rational
}

// Sentinel errors the Store must return. The engine matches them with
// errors.Is, so implementations may wrap them with context.
var (
	// ErrNotFound indicates the referenced item has no key in the collection.
	ErrNotFound = errors.New("item not found")

	// ErrConflict indicates a write would duplicate another item's key
	// (exact fraction or float64 quotient). Conflicts imply a race with a
	// concurrent mutation and are retried from a fresh read.
	ErrConflict = errors.New("key conflict")
)

// Store is the persistence collaborator. Implementations must enforce key
// uniqueness (returning ErrConflict) and provide the per-collection
// exclusive hold the engine's serialization contract requires.
type Store interface {
	// ReadNeighbor returns the first key strictly past anchorID's key in the
	// given direction, or ok=false if no item exists on that side. An empty
	// anchorID addresses the open boundary: Forward from "" yields the
	// collection's minimum key, Backward from "" its maximum.
	ReadNeighbor(ctx context.Context, collection, anchorID string, dir Direction) (key rational.Rational, ok bool, err error)

	// ReadKey returns itemID's key, or ErrNotFound.
	ReadKey(ctx context.Context, collection, itemID string) (rational.Rational, error)

	// WriteKey persists key for itemID (insert or update). Returns
	// ErrConflict if the key would duplicate another item's key.
	WriteKey(ctx context.Context, collection, itemID string, key rational.Rational) error

	// ReadAllOrdered returns every (item, key) pair ascending by key.
	ReadAllOrdered(ctx context.Context, collection string) ([]Entry, error)

	// WriteAll atomically rewrites the given keys, wholly or not at all.
	// Entries are provided in ascending final-key order.
	WriteAll(ctx context.Context, collection string, entries []Entry) error

	// Lock acquires an exclusive hold on the collection for the duration of
	// one engine operation. The release function must be safe to call on
	// every exit path.
	Lock(ctx context.Context, collection string) (release func(), err error)
}

// Engine configuration defaults and limits.
const (
	// DefaultCeiling bounds key integers before renormalization kicks in.
	DefaultCeiling = 10_000_000

	// MaxCeiling is the widest configurable ceiling. Keeping components
	// under 2^30 guarantees every cross product and mediant sum fits the
	// guarded 64/128-bit arithmetic in the rational package.
	MaxCeiling = 1<<30 - 1

	// DefaultMaxDescentSteps caps one mediant descent. The descent length is
	// bounded by the ceiling, so exhausting the budget signals a
	// misconfigured ceiling rather than bad data.
	DefaultMaxDescentSteps = 1_000_000

	// DefaultMaxRetries bounds conflict retries (re-read and recompute)
	// before the conflict is surfaced to the caller.
	DefaultMaxRetries = 5
)

// Engine computes and maintains position keys for ordered collections.
// All methods are synchronous; thread-safety across callers is delegated to
// the Store's Lock.
type Engine struct {
	store           Store
	ceiling         int64
	maxDescentSteps int
	maxRetries      int
}

// Option configures an Engine.
type Option func(*Engine)

// WithCeiling sets the bound on key integers (default DefaultCeiling).
// Crossing the ceiling on a write triggers renormalization.
func WithCeiling(ceiling int64) Option {
	return func(e *Engine) {
		e.ceiling = ceiling
	}
}

// WithMaxDescentSteps caps the mediant solver's descent loop.
// Exhaustion is reported as a configuration error.
func WithMaxDescentSteps(steps int) Option {
	return func(e *Engine) {
		e.maxDescentSteps = steps
	}
}

// WithMaxRetries sets how many times a conflicting write is recomputed from
// a fresh read before the conflict propagates.
func WithMaxRetries(retries int) Option {
	return func(e *Engine) {
		e.maxRetries = retries
	}
}

// New creates an Engine over the given store.
func New(store Store, opts ...Option) (*Engine, error) {
	if store == nil {
		return nil, fmt.Errorf("engine: store is required")
	}

	e := &Engine{
		store:           store,
		ceiling:         DefaultCeiling,
		maxDescentSteps: DefaultMaxDescentSteps,
		maxRetries:      DefaultMaxRetries,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.ceiling < 2 || e.ceiling > MaxCeiling {
		return nil, fmt.Errorf("engine: ceiling %d out of range [2, %d]", e.ceiling, MaxCeiling)
	}
	if e.maxRetries < 1 {
		return nil, fmt.Errorf("engine: max retries must be at least 1, got %d", e.maxRetries)
	}

	return e, nil
}

// Ceiling returns the configured integer ceiling.
func (e *Engine) Ceiling() int64 {
	return e.ceiling
}
