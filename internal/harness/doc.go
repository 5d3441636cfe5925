// Package harness provides conformance testing for the ordering engine.
//
// The harness loads YAML scenarios, replays their steps against a fresh
// engine over an in-memory SQLite store, and validates assertions about the
// resulting order, keys, and trace.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	collection: todos
//	ceiling: 100
//	steps:
//	  - append: item-a
//	  - place: item-b
//	    before: item-a
//	  - place: item-c
//	    after: item-a
//	  - renormalize: true
//	assertions:
//	  - type: order
//	    items: [item-b, item-a, item-c]
//	  - type: key
//	    item: item-b
//	    key: 1/2
//	  - type: distinct_keys
//	  - type: reduced_keys
//	  - type: within_ceiling
//	  - type: renormalize_count
//	    count: 1
//
// # Assertion Types
//
//   - order: the collection's items appear in exactly this order
//   - key: an item holds exactly this key (written "P/Q")
//   - distinct_keys: no two items share a key, exactly or by float quotient
//   - reduced_keys: every stored key is in lowest terms
//   - within_ceiling: every key's integers are at or under the ceiling
//   - renormalize_count: the trace records exactly N renormalizations
//     (triggered plus explicit)
//
// # Deterministic Testing
//
// Key computation is deterministic: the same steps against the same state
// always yield the same keys. Each scenario runs in its own in-memory
// SQLite database, so traces are identical across runs and can be compared
// against golden snapshots.
package harness
