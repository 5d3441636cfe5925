package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/ordinal/internal/engine"
	"github.com/roach88/ordinal/internal/rational"
)

// ReadKey returns the key stored for the item, or engine.ErrNotFound.
func (s *Store) ReadKey(ctx context.Context, collection, itemID string) (rational.Rational, error) {
	var p, q int64
	err := s.db.QueryRowContext(ctx,
		`SELECT p, q FROM items WHERE collection = ? AND item_id = ?`,
		collection, itemID,
	).Scan(&p, &q)
	if errors.Is(err, sql.ErrNoRows) {
		return rational.Rational{}, fmt.Errorf("item %s in collection %s: %w", itemID, collection, engine.ErrNotFound)
	}
	if err != nil {
		return rational.Rational{}, fmt.Errorf("read key: %w", err)
	}
	return rational.Rational{P: p, Q: q}, nil
}

// ReadNeighbor returns the key adjacent to the anchor in the given
// direction, with ok=false when the anchor sits at that boundary. An empty
// anchorID names the collection's open boundary: Forward returns the
// minimum key, Backward the maximum.
//
// Adjacency is resolved on the pos column; its UNIQUE index makes the
// strict comparison unambiguous.
func (s *Store) ReadNeighbor(ctx context.Context, collection, anchorID string, dir engine.Direction) (rational.Rational, bool, error) {
	var query string
	args := []any{collection}

	switch {
	case anchorID == "" && dir == engine.Forward:
		query = `SELECT p, q FROM items WHERE collection = ?
		         ORDER BY pos ASC LIMIT 1`
	case anchorID == "" && dir == engine.Backward:
		query = `SELECT p, q FROM items WHERE collection = ?
		         ORDER BY pos DESC LIMIT 1`
	case dir == engine.Forward:
		query = `SELECT p, q FROM items WHERE collection = ?
		         AND pos > (SELECT pos FROM items WHERE collection = ? AND item_id = ?)
		         ORDER BY pos ASC LIMIT 1`
		args = append(args, collection, anchorID)
	default:
		query = `SELECT p, q FROM items WHERE collection = ?
		         AND pos < (SELECT pos FROM items WHERE collection = ? AND item_id = ?)
		         ORDER BY pos DESC LIMIT 1`
		args = append(args, collection, anchorID)
	}

	var key rational.Rational
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&key.P, &key.Q)
	if errors.Is(err, sql.ErrNoRows) {
		return rational.Rational{}, false, nil
	}
	if err != nil {
		return rational.Rational{}, false, fmt.Errorf("read %s neighbor of %q: %w", dir, anchorID, err)
	}
	return key, true, nil
}

// ReadAllOrdered returns every entry in the collection in ascending key
// order. An empty collection yields an empty slice, not an error.
func (s *Store) ReadAllOrdered(ctx context.Context, collection string) ([]engine.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT item_id, p, q FROM items WHERE collection = ? ORDER BY pos ASC`,
		collection,
	)
	if err != nil {
		return nil, fmt.Errorf("read collection %s: %w", collection, err)
	}
	defer rows.Close()

	var entries []engine.Entry
	for rows.Next() {
		var en engine.Entry
		if err := rows.Scan(&en.ItemID, &en.Key.P, &en.Key.Q); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, en)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read collection %s: %w", collection, err)
	}
	return entries, nil
}
