package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/ordinal/internal/rational"
)

// Renormalize reassigns every key in the collection to the dense baseline
// sequence 1/2, 3/2, 5/2, ... in the items' existing order.
//
// The reassignment is computed in one pass and written atomically. Keys of
// the form x/2 already present on items shift where subsequent targets land,
// so the bulk write never collides with a key it has not rewritten yet and
// the store's uniqueness constraint holds at every point of the rewrite.
//
// If the atomic write is rejected (ErrConflict from collaborator-level
// contention), the whole renormalization is retried from a fresh read.
// Partial application is never a valid state.
func (e *Engine) Renormalize(ctx context.Context, collection string) error {
	collection = CanonicalID(collection)
	if collection == "" {
		return &OrderError{Code: ErrCodeInvalidArgument, Message: "collection is required"}
	}

	release, err := e.store.Lock(ctx, collection)
	if err != nil {
		return fmt.Errorf("lock collection %s: %w", collection, err)
	}
	defer release()

	return e.renormalizeLocked(ctx, collection)
}

// renormalizeLocked performs the read/rank/write cycle under the collection
// hold. Also called from placeLocked when a write crosses the ceiling.
func (e *Engine) renormalizeLocked(ctx context.Context, collection string) error {
	var lastConflict error

	for attempt := 1; attempt <= e.maxRetries; attempt++ {
		entries, err := e.store.ReadAllOrdered(ctx, collection)
		if err != nil {
			return fmt.Errorf("read collection %s: %w", collection, err)
		}
		if len(entries) == 0 {
			return nil
		}

		changed := renormalizeTargets(entries)
		if len(changed) == 0 {
			slog.Debug("renormalization found nothing to rewrite",
				"collection", collection, "items", len(entries))
			return nil
		}

		err = e.store.WriteAll(ctx, collection, changed)
		if errors.Is(err, ErrConflict) {
			// Wholesale retry from a fresh read; never merge partial state.
			lastConflict = err
			slog.Debug("renormalization write rejected, retrying from fresh read",
				"collection", collection, "attempt", attempt)
			continue
		}
		if err != nil {
			return fmt.Errorf("renormalize %s: %w", collection, err)
		}

		slog.Info("renormalized collection",
			"collection", collection, "items", len(entries), "rewritten", len(changed))
		return nil
	}

	return newConflictError(collection, "", e.maxRetries, lastConflict)
}

// renormalizeTargets computes the collision-free dense reassignment for
// entries already ordered ascending by key. It returns only the entries
// whose key actually changes, in ascending final-key order.
//
// The item at rank k (1-based) gets the simple target (2k-1)/2. Items whose
// current key already has denominator 2 occupy x/2 slots the bulk write
// must never land on while any item still holds its old key. Each occupied
// numerator v becomes an adjustment point v - 2j (j = number of earlier
// occupied slots): the initial-numerator threshold at which the shifted
// sequence would reach v, so the sequence jumps ahead by one unit (2 in
// numerator terms) there and skips the slot. Adjustment points can repeat,
// and each occurrence counts. Every simple target is then raised by 2 per
// adjustment point at or below it, computed as a running merge since both
// sequences are ascending.
//
// Because every occupied slot is skipped, no write in the batch can equal
// any pre-rewrite x/2 key, so uniqueness holds at every point of the
// rewrite regardless of application order.
func renormalizeTargets(entries []Entry) []Entry {
	// Occupied x/2 numerators arrive ascending (entries are in key order,
	// and among denominator-2 keys numerator order is key order).
	var adjust []int64
	for _, en := range entries {
		if en.Key.Q == 2 {
			adjust = append(adjust, en.Key.P-2*int64(len(adjust)))
		}
	}

	changed := make([]Entry, 0, len(entries))
	passed := 0 // adjustment points at or below the current simple target
	for i, en := range entries {
		initial := 2*int64(i) + 1
		for passed < len(adjust) && adjust[passed] <= initial {
			passed++
		}
		target := rational.Rational{P: initial + 2*int64(passed), Q: 2}
		if en.Key != target {
			changed = append(changed, Entry{ItemID: en.ItemID, Key: target})
		}
	}
	return changed
}
