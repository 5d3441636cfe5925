package store

import (
	"context"
	"fmt"

	"github.com/roach88/ordinal/internal/engine"
	"github.com/roach88/ordinal/internal/rational"
)

// WriteKey upserts the item's key. A breach of either uniqueness index
// (exact fraction or float quotient) surfaces as engine.ErrConflict.
func (s *Store) WriteKey(ctx context.Context, collection, itemID string, key rational.Rational) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO items (collection, item_id, p, q) VALUES (?, ?, ?, ?)
		 ON CONFLICT (collection, item_id) DO UPDATE SET p = excluded.p, q = excluded.q`,
		collection, itemID, key.P, key.Q,
	)
	if err != nil {
		return fmt.Errorf("write key for %s in %s: %w", itemID, collection, asEngineError(err))
	}
	return nil
}

// WriteAll applies a batch of key updates in one transaction, wholly or not
// at all. Callers pass entries in ascending final-key order; applying them
// in that order keeps the intermediate states from tripping the uniqueness
// indexes during renormalization.
func (s *Store) WriteAll(ctx context.Context, collection string, entries []engine.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin bulk write: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`UPDATE items SET p = ?, q = ? WHERE collection = ? AND item_id = ?`)
	if err != nil {
		return fmt.Errorf("prepare bulk write: %w", err)
	}
	defer stmt.Close()

	for _, en := range entries {
		res, err := stmt.ExecContext(ctx, en.Key.P, en.Key.Q, collection, en.ItemID)
		if err != nil {
			return fmt.Errorf("bulk write %s in %s: %w", en.ItemID, collection, asEngineError(err))
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("bulk write %s in %s: %w", en.ItemID, collection, err)
		}
		if n == 0 {
			// The item vanished between the engine's read and this write.
			return fmt.Errorf("bulk write %s in %s: item gone: %w", en.ItemID, collection, engine.ErrConflict)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit bulk write: %w", err)
	}
	return nil
}
