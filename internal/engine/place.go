package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/ordinal/internal/rational"
)

// PlaceResult reports what a placement did.
type PlaceResult struct {
	// ItemID is the canonical identifier of the placed item.
	ItemID string `json:"item_id"`

	// Key is the persisted position key. Zero when NoOp is true.
	Key rational.Rational `json:"key"`

	// Low and High are the bracketing bounds the key was computed between
	// (sentinels 0/1 and 1/0 at open ends). Zero when NoOp is true.
	Low  rational.Rational `json:"low"`
	High rational.Rational `json:"high"`

	// Renormalized is true when the write crossed the ceiling and the whole
	// collection was reassigned to the dense baseline afterwards.
	Renormalized bool `json:"renormalized,omitempty"`

	// NoOp is true when the anchor was the item itself; nothing was read or
	// written.
	NoOp bool `json:"no_op,omitempty"`
}

// Place inserts itemID into the collection's order, or moves it if it
// already has a key. The new position is directly before (before=true) or
// after (before=false) the anchor item. An empty anchorID places the item at
// the open end in the direction away from `before`: before=true prepends,
// before=false appends.
//
// Moving an item next to itself is idempotent: when anchorID equals itemID
// the call returns a NoOp result before any key lookup. The comparison is on
// the raw (canonicalized) identifiers, not on resolved keys.
//
// Conflicting writes are recomputed from a fresh read up to the retry
// budget. If the persisted key crossed the ceiling, the collection is
// renormalized before Place returns.
func (e *Engine) Place(ctx context.Context, collection, itemID, anchorID string, before bool) (*PlaceResult, error) {
	collection = CanonicalID(collection)
	itemID = CanonicalID(itemID)
	anchorID = CanonicalID(anchorID)

	if collection == "" || itemID == "" {
		return nil, &OrderError{
			Code:       ErrCodeInvalidArgument,
			Message:    "collection and item ID are required",
			Collection: collection,
			ItemID:     itemID,
		}
	}

	// Identity check on identifiers, before any key lookup.
	if anchorID == itemID {
		slog.Debug("place is a no-op: anchor is the item itself",
			"collection", collection, "item", itemID)
		return &PlaceResult{ItemID: itemID, NoOp: true}, nil
	}

	release, err := e.store.Lock(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("lock collection %s: %w", collection, err)
	}
	defer release()

	return e.placeLocked(ctx, collection, itemID, anchorID, before)
}

// AppendAtEnd places itemID after the collection's current maximum key (or
// at 1/1 into an empty collection). Thin composition of Place with no
// anchor; used by row-creation paths that have no explicit position.
func (e *Engine) AppendAtEnd(ctx context.Context, collection, itemID string) (*PlaceResult, error) {
	return e.Place(ctx, collection, itemID, "", false)
}

// placeLocked runs the bracket/solve/write cycle under the collection hold.
func (e *Engine) placeLocked(ctx context.Context, collection, itemID, anchorID string, before bool) (*PlaceResult, error) {
	var lastConflict error

	for attempt := 1; attempt <= e.maxRetries; attempt++ {
		low, high, err := e.bracket(ctx, collection, anchorID, before)
		if err != nil {
			return nil, err
		}

		key, err := rational.SimplestBetween(low, high, e.maxDescentSteps)
		if err != nil {
			if errors.Is(err, rational.ErrDescentBudget) {
				return nil, &OrderError{
					Code:       ErrCodeConfig,
					Message:    fmt.Sprintf("mediant descent budget (%d) exhausted; ceiling is too high for the configured budget", e.maxDescentSteps),
					Collection: collection,
					ItemID:     itemID,
					Err:        err,
				}
			}
			return nil, newInvariantError(collection, itemID, "mediant solver failed", err)
		}
		if err := key.Validate(); err != nil {
			return nil, newInvariantError(collection, itemID, "solver produced malformed key", err)
		}

		err = e.store.WriteKey(ctx, collection, itemID, key)
		if errors.Is(err, ErrConflict) {
			// A concurrent mutation landed on the same key. Re-read the
			// brackets and recompute.
			lastConflict = err
			slog.Debug("key conflict, recomputing from fresh read",
				"collection", collection, "item", itemID, "key", key.String(), "attempt", attempt)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("write key %s for %s: %w", key, itemID, err)
		}

		slog.Debug("placed item",
			"collection", collection, "item", itemID,
			"key", key.String(), "low", low.String(), "high", high.String())

		res := &PlaceResult{ItemID: itemID, Key: key, Low: low, High: high}

		if key.P > e.ceiling || key.Q > e.ceiling {
			slog.Info("key crossed ceiling, renormalizing collection",
				"collection", collection, "key", key.String(), "ceiling", e.ceiling)
			if err := e.renormalizeLocked(ctx, collection); err != nil {
				return nil, err
			}
			res.Renormalized = true
			// The rewrite replaced the oversized key; report the final one.
			res.Key, err = e.store.ReadKey(ctx, collection, itemID)
			if err != nil {
				return nil, fmt.Errorf("re-read key after renormalization: %w", err)
			}
		}

		return res, nil
	}

	return nil, newConflictError(collection, itemID, e.maxRetries, lastConflict)
}

// bracket determines the two bounds the new key must fall between.
// Missing neighbors become the open sentinels 0/1 and 1/0.
func (e *Engine) bracket(ctx context.Context, collection, anchorID string, before bool) (low, high rational.Rational, err error) {
	if anchorID == "" {
		if before {
			low = rational.Floor
			high, err = e.neighborOr(ctx, collection, "", Forward, rational.Infinity)
		} else {
			low, err = e.neighborOr(ctx, collection, "", Backward, rational.Floor)
			high = rational.Infinity
		}
		return low, high, err
	}

	anchorKey, err := e.store.ReadKey(ctx, collection, anchorID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return low, high, newNotFoundError(collection, anchorID, err)
		}
		return low, high, fmt.Errorf("read anchor %s: %w", anchorID, err)
	}

	if before {
		high = anchorKey
		low, err = e.neighborOr(ctx, collection, anchorID, Backward, rational.Floor)
	} else {
		low = anchorKey
		high, err = e.neighborOr(ctx, collection, anchorID, Forward, rational.Infinity)
	}
	return low, high, err
}

// neighborOr reads the neighbor past anchorID in dir, substituting the given
// sentinel when the collection has no item on that side.
func (e *Engine) neighborOr(ctx context.Context, collection, anchorID string, dir Direction, sentinel rational.Rational) (rational.Rational, error) {
	key, ok, err := e.store.ReadNeighbor(ctx, collection, anchorID, dir)
	if err != nil {
		return rational.Rational{}, fmt.Errorf("read %s neighbor of %q: %w", dir, anchorID, err)
	}
	if !ok {
		return sentinel, nil
	}
	return key, nil
}
