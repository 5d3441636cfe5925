package testutil

import (
	"fmt"
	"sync"
)

// SequentialIDs generates deterministic item identifiers for tests.
//
// Unlike the CLI's UUIDv7 generation, SequentialIDs can be reset so the same
// scenario produces identical identifiers on every run, which golden file
// comparison depends on.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type SequentialIDs struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialIDs creates a generator producing "<prefix>-001",
// "<prefix>-002", and so on.
func NewSequentialIDs(prefix string) *SequentialIDs {
	return &SequentialIDs{prefix: prefix}
}

// Next returns the next identifier.
func (g *SequentialIDs) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%03d", g.prefix, g.n)
}

// Reset restarts the sequence. The next call to Next returns "<prefix>-001".
func (g *SequentialIDs) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n = 0
}
