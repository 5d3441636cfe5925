// Package store provides the SQLite persistence collaborator for the
// ordinal engine.
//
// The store owns everything the engine deliberately does not: durable
// storage of keys, enforcement of key uniqueness (exact fraction and float64
// quotient, both as UNIQUE indexes), ordered reads, atomic bulk rewrites,
// and the per-collection exclusive hold that serializes mutations.
//
// Uniqueness violations surface as engine.ErrConflict so the engine can
// re-read and recompute; missing rows surface as engine.ErrNotFound.
package store
