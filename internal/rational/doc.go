// Package rational implements the ordering-key arithmetic for ordinal.
//
// A key is a reduced non-negative fraction. The package provides exact
// comparison by cross-multiplication (128-bit intermediates, no floating
// division) and the simplest-fraction-between solver used to synthesize a
// new key strictly between two neighbors.
//
// The solver descends the Stern-Brocot tree: every positive rational appears
// exactly once in the tree, every node is the mediant of its nearest left and
// right ancestors, and all nodes are in lowest terms by construction. The
// shallowest node inside an open interval is the unique "simplest" fraction
// there: it has the smallest integers, needs no reduction, and stays exact
// when both components are under the engine's ceiling.
package rational
