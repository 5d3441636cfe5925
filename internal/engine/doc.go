// Package engine implements the ordinal ordering engine.
//
// The engine maintains a total, stably-mutable order over the items of a
// collection by assigning each item a rational position key. Inserting or
// moving an item never renumbers its neighbors: the engine reads the two
// bracketing keys, asks the mediant solver for the simplest fraction
// strictly between them, and persists that single key.
//
// ARCHITECTURE:
//
// The engine performs no storage and no internal threading. All persistence
// and uniqueness enforcement is delegated to a Store collaborator:
//
//  1. Place() acquires the collection's exclusive hold from the Store
//  2. The anchor's key and its neighbor are read to form the bracket
//  3. The mediant solver synthesizes the new key
//  4. The key is written back; the Store rejects duplicates with ErrConflict
//  5. If either integer crossed the ceiling, the whole collection is
//     renormalized to the dense (2k-1)/2 baseline before returning
//
// Serialization contract: at most one Place or Renormalize call per
// collection may be in flight at a time. Two concurrent placements working
// from the same stale bracket would compute the same mediant and collide;
// the Store's Lock() is what prevents that, not the engine.
//
// INVARIANTS:
//   - ORDER: persisted key order always matches the order established by
//     the sequence of operations
//   - REDUCED: every stored key has gcd(p, q) = 1 and q > 0
//   - BOUNDED: p and q stay under the configured ceiling; crossing it on a
//     write triggers renormalization before further inserts are trusted.
//     BOUNDED is also what keeps float64 quotients pairwise distinct.
package engine
