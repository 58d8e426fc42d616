// Package disclosure implements salted selective disclosure over documents.
//
// # Flow
//
//  1. Flatten a (possibly nested) document into dotted field paths.
//  2. Saltify the flat map: every field gets a fresh 32-byte random salt and
//     becomes {"v": value, "s": salt}. This is what the issuer shares.
//  3. GetSalts extracts the salts, which the holder keeps privately.
//  4. Resaltify re-applies kept salts to a fresh flattening of the same
//     document, reproducing the original pairs exactly.
//  5. Disclose picks a subset of salted fields for a verifier; Desaltify
//     strips salts back to plain values.
//
// # Paths
//
// Nested keys are joined with "." and any literal "." or "\" inside a key is
// escaped with "\". A document without such characters in its top-level keys
// flattens to itself. Empty nested maps carry no leaves and disappear.
//
// # Security notes
//
// Salts come from crypto/rand unless a reader is injected. A verifier who
// lacks a field's salt cannot test guesses of a low-entropy value against its
// commitment. Publishing commitments is left to the caller.
package disclosure
