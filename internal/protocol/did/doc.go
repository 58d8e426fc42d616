// Package did derives decentralized identifiers from account public keys and
// builds the DID documents (DDOs) that describe them.
//
// # Derivation
//
// A DID is "did:sora:" followed by the first 20 hex characters of the
// hex-encoded public key. Derivation is a pure function: the same public key
// always yields the same DID, independent of the private key or nonce.
//
// # Documents
//
// A DDO binds the DID to its single public key under the reference
// "<did>#keys-1" and lists that reference as the authentication method.
// Documents are immutable snapshots; there is no update operation.
package did
