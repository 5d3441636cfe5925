package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ordinal/internal/engine"
	"github.com/roach88/ordinal/internal/testutil"
)

func TestRenormalize_PreservesOrderAndForm(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewMemStore()
	store.Seed("todos",
		engine.Entry{ItemID: "a", Key: key(1, 2)},
		engine.Entry{ItemID: "b", Key: key(9, 2)},
		engine.Entry{ItemID: "c", Key: key(13, 2)},
		engine.Entry{ItemID: "d", Key: key(15, 2)},
		engine.Entry{ItemID: "e", Key: key(23, 2)},
	)
	e := newEngine(t, store)

	require.NoError(t, e.Renormalize(ctx, "todos"))

	entries, err := store.ReadAllOrdered(ctx, "todos")
	require.NoError(t, err)
	require.Len(t, entries, 5)

	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, orderOf(t, store, "todos"),
		"relative order must survive renormalization")

	seen := map[int64]bool{}
	for _, en := range entries {
		assert.Equal(t, int64(2), en.Key.Q, "item %s", en.ItemID)
		assert.Equal(t, int64(1), en.Key.P%2, "item %s numerator must be odd", en.ItemID)
		assert.False(t, seen[en.Key.P], "duplicate numerator %d", en.Key.P)
		seen[en.Key.P] = true
	}
}

func TestRenormalize_EmptyCollection(t *testing.T) {
	e := newEngine(t, testutil.NewMemStore())
	assert.NoError(t, e.Renormalize(context.Background(), "empty"))
}

func TestRenormalize_RetriesWholesaleOnConflict(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewMemStore()
	store.Seed("todos",
		engine.Entry{ItemID: "a", Key: key(1, 3)},
		engine.Entry{ItemID: "b", Key: key(1, 2)},
	)
	e := newEngine(t, store)

	store.FailNextBulkWrites(1)
	require.NoError(t, e.Renormalize(ctx, "todos"), "one rejected bulk write must be retried from a fresh read")

	entries, err := store.ReadAllOrdered(ctx, "todos")
	require.NoError(t, err)
	assert.Equal(t, key(3, 2), entries[0].Key)
	assert.Equal(t, key(5, 2), entries[1].Key)
}

func TestRenormalize_ConflictBudgetExhausted(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewMemStore()
	store.Seed("todos", engine.Entry{ItemID: "a", Key: key(1, 3)})
	e := newEngine(t, store, engine.WithMaxRetries(2))

	store.FailNextBulkWrites(2)
	err := e.Renormalize(ctx, "todos")
	require.Error(t, err)
	assert.True(t, engine.IsConflict(err), "want CONFLICT, got %v", err)
}

func TestAudit_CleanCollection(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewMemStore()
	e := newEngine(t, store)

	for _, id := range []string{"a", "b", "c"} {
		_, err := e.AppendAtEnd(ctx, "todos", id)
		require.NoError(t, err)
	}

	violations, err := e.Audit(ctx, "todos")
	require.NoError(t, err)
	assert.Empty(t, violations)
}

func TestAudit_FlagsBreaches(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewMemStore()
	// Seed bypasses the store's uniqueness checks, standing in for a
	// collection written by a foreign process.
	store.Seed("todos",
		engine.Entry{ItemID: "reducible", Key: key(2, 4)},
		engine.Entry{ItemID: "oversized", Key: key(10_000_019, 1)},
	)
	e := newEngine(t, store)

	violations, err := e.Audit(ctx, "todos")
	require.NoError(t, err)
	require.Len(t, violations, 2)

	byItem := map[string]engine.Violation{}
	for _, v := range violations {
		byItem[v.ItemID] = v
	}
	assert.Equal(t, engine.ErrCodeInvariantViolation, byItem["reducible"].Code)
	assert.Equal(t, engine.ErrCodeCeilingExceeded, byItem["oversized"].Code)
}
