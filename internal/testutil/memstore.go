// Package testutil provides deterministic helpers for engine and harness
// tests: an in-memory Store collaborator with injectable write failures, and
// a sequential item ID generator.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/roach88/ordinal/internal/engine"
	"github.com/roach88/ordinal/internal/rational"
)

// MemStore is an in-memory engine.Store for tests.
//
// It enforces the same uniqueness the SQLite store does (exact fraction and
// float64 quotient) and supports injecting write conflicts to exercise the
// engine's retry paths.
//
// Thread-safety: all methods are safe for concurrent use via an internal
// mutex; Lock provides the per-collection exclusive hold the engine expects.
type MemStore struct {
	mu          sync.Mutex
	collections map[string]map[string]rational.Rational
	locks       map[string]chan struct{}

	failKeyWrites  int // next N WriteKey calls fail with ErrConflict
	failBulkWrites int // next N WriteAll calls fail with ErrConflict
}

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{
		collections: make(map[string]map[string]rational.Rational),
		locks:       make(map[string]chan struct{}),
	}
}

// Seed installs entries directly, bypassing uniqueness checks.
// Use for arranging pathological states the engine must recover from.
func (m *MemStore) Seed(collection string, entries ...engine.Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := m.items(collection)
	for _, en := range entries {
		items[en.ItemID] = en.Key
	}
}

// FailNextKeyWrites makes the next n WriteKey calls return ErrConflict.
func (m *MemStore) FailNextKeyWrites(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failKeyWrites = n
}

// FailNextBulkWrites makes the next n WriteAll calls return ErrConflict.
func (m *MemStore) FailNextBulkWrites(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failBulkWrites = n
}

// items returns the collection's map, creating it if needed. Caller holds mu.
func (m *MemStore) items(collection string) map[string]rational.Rational {
	items, ok := m.collections[collection]
	if !ok {
		items = make(map[string]rational.Rational)
		m.collections[collection] = items
	}
	return items
}

// ordered returns the collection's entries ascending by key. Caller holds mu.
func (m *MemStore) ordered(collection string) []engine.Entry {
	items := m.collections[collection]
	entries := make([]engine.Entry, 0, len(items))
	for id, key := range items {
		entries = append(entries, engine.Entry{ItemID: id, Key: key})
	}
	sort.Slice(entries, func(i, j int) bool {
		if c := entries[i].Key.Cmp(entries[j].Key); c != 0 {
			return c < 0
		}
		return entries[i].ItemID < entries[j].ItemID
	})
	return entries
}

// ReadNeighbor implements engine.Store.
func (m *MemStore) ReadNeighbor(ctx context.Context, collection, anchorID string, dir engine.Direction) (rational.Rational, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries := m.ordered(collection)
	if anchorID == "" {
		if len(entries) == 0 {
			return rational.Rational{}, false, nil
		}
		if dir == engine.Forward {
			return entries[0].Key, true, nil
		}
		return entries[len(entries)-1].Key, true, nil
	}

	anchorKey, ok := m.collections[collection][anchorID]
	if !ok {
		return rational.Rational{}, false, nil
	}
	if dir == engine.Forward {
		for _, en := range entries {
			if anchorKey.Less(en.Key) {
				return en.Key, true, nil
			}
		}
	} else {
		for i := len(entries) - 1; i >= 0; i-- {
			if entries[i].Key.Less(anchorKey) {
				return entries[i].Key, true, nil
			}
		}
	}
	return rational.Rational{}, false, nil
}

// ReadKey implements engine.Store.
func (m *MemStore) ReadKey(ctx context.Context, collection, itemID string) (rational.Rational, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key, ok := m.collections[collection][itemID]
	if !ok {
		return rational.Rational{}, fmt.Errorf("%s in %s: %w", itemID, collection, engine.ErrNotFound)
	}
	return key, nil
}

// WriteKey implements engine.Store. Rejects keys that duplicate another
// item's exact fraction or float64 quotient.
func (m *MemStore) WriteKey(ctx context.Context, collection, itemID string, key rational.Rational) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failKeyWrites > 0 {
		m.failKeyWrites--
		return fmt.Errorf("injected: %w", engine.ErrConflict)
	}
	items := m.items(collection)
	if err := checkUnique(items, itemID, key); err != nil {
		return err
	}
	items[itemID] = key
	return nil
}

// ReadAllOrdered implements engine.Store.
func (m *MemStore) ReadAllOrdered(ctx context.Context, collection string) ([]engine.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ordered(collection), nil
}

// WriteAll implements engine.Store. Entries are applied in the given order;
// any uniqueness breach rolls the whole batch back.
func (m *MemStore) WriteAll(ctx context.Context, collection string, entries []engine.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failBulkWrites > 0 {
		m.failBulkWrites--
		return fmt.Errorf("injected: %w", engine.ErrConflict)
	}

	items := m.items(collection)
	backup := make(map[string]rational.Rational, len(items))
	for id, key := range items {
		backup[id] = key
	}

	for _, en := range entries {
		if err := checkUnique(items, en.ItemID, en.Key); err != nil {
			m.collections[collection] = backup
			return err
		}
		items[en.ItemID] = en.Key
	}
	return nil
}

// Lock implements engine.Store with a per-collection channel semaphore so
// acquisition respects context cancellation.
func (m *MemStore) Lock(ctx context.Context, collection string) (func(), error) {
	m.mu.Lock()
	sem, ok := m.locks[collection]
	if !ok {
		sem = make(chan struct{}, 1)
		m.locks[collection] = sem
	}
	m.mu.Unlock()

	select {
	case sem <- struct{}{}:
		return func() { <-sem }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// checkUnique rejects key if another item already holds the same exact
// fraction or the same float64 quotient. Caller holds mu.
func checkUnique(items map[string]rational.Rational, itemID string, key rational.Rational) error {
	for id, existing := range items {
		if id == itemID {
			continue
		}
		if existing.Cmp(key) == 0 {
			return fmt.Errorf("key %s already held by %s: %w", key, id, engine.ErrConflict)
		}
		if existing.Float() == key.Float() {
			return fmt.Errorf("float quotient of %s collides with %s held by %s: %w", key, existing, id, engine.ErrConflict)
		}
	}
	return nil
}
