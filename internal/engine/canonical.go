package engine

import "golang.org/x/text/unicode/norm"

// CanonicalID returns the NFC normalization of an identifier.
//
// Collection and item identifiers are normalized at the engine boundary so
// that byte-distinct but canonically-equal strings cannot address two
// different rows. The store only ever sees canonical identifiers.
func CanonicalID(id string) string {
	return norm.NFC.String(id)
}
