package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ordinal/internal/engine"
	"github.com/roach88/ordinal/internal/rational"
)

func resultWithEntries(entries ...engine.Entry) *Result {
	r := NewResult()
	r.finalEntries = entries
	for _, en := range entries {
		r.FinalOrder = append(r.FinalOrder, en.ItemID+"="+en.Key.String())
	}
	return r
}

func entry(id string, p, q int64) engine.Entry {
	return engine.Entry{ItemID: id, Key: rational.Rational{P: p, Q: q}}
}

func TestAssertOrder(t *testing.T) {
	r := resultWithEntries(entry("a", 1, 2), entry("b", 1, 1))

	assert.NoError(t, assertOrder(r, Assertion{Items: []string{"a", "b"}}))

	err := assertOrder(r, Assertion{Items: []string{"b", "a"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Assertion failed: order")

	assert.Error(t, assertOrder(r, Assertion{Items: []string{"a"}}),
		"a missing item must fail, not subset-match")
}

func TestAssertKey(t *testing.T) {
	r := resultWithEntries(entry("a", 1, 2))

	assert.NoError(t, assertKey(r, Assertion{Item: "a", Key: "1/2"}))
	assert.Error(t, assertKey(r, Assertion{Item: "a", Key: "1/3"}))
	assert.Error(t, assertKey(r, Assertion{Item: "ghost", Key: "1/2"}))
	assert.Error(t, assertKey(r, Assertion{Item: "a", Key: "not-a-key"}))
}

func TestAssertDistinctKeys(t *testing.T) {
	assert.NoError(t, assertDistinctKeys(resultWithEntries(entry("a", 1, 2), entry("b", 1, 3))))

	// 2/4 is unreduced but its quotient collides with 1/2.
	err := assertDistinctKeys(resultWithEntries(entry("a", 1, 2), entry("b", 2, 4)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collide")
}

func TestAssertReducedKeys(t *testing.T) {
	assert.NoError(t, assertReducedKeys(resultWithEntries(entry("a", 3, 2))))
	assert.Error(t, assertReducedKeys(resultWithEntries(entry("a", 2, 4))))
}

func TestAssertWithinCeiling(t *testing.T) {
	r := resultWithEntries(entry("a", 11, 8))
	assert.NoError(t, assertWithinCeiling(r, 11))
	assert.Error(t, assertWithinCeiling(r, 10))
}

func TestAssertRenormalizeCount(t *testing.T) {
	r := NewResult()
	r.AddEvent(TraceEvent{Op: "place", Item: "a", Renormalized: true})
	r.AddEvent(TraceEvent{Op: "renormalize", Renormalized: true})

	assert.NoError(t, assertRenormalizeCount(r, Assertion{Count: 2}))
	assert.Error(t, assertRenormalizeCount(r, Assertion{Count: 1}))
}

func TestParseKey(t *testing.T) {
	k, err := parseKey("3/2")
	require.NoError(t, err)
	assert.Equal(t, rational.Rational{P: 3, Q: 2}, k)

	_, err = parseKey("3")
	assert.Error(t, err)
	_, err = parseKey("x/2")
	assert.Error(t, err)
	_, err = parseKey("3/0")
	assert.Error(t, err)
}
