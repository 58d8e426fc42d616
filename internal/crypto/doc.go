// Package crypto exposes the primitives used by the wallet core.
//
// Contents
//
//   - Ed25519 key generation and the default request signer, which signs the
//     SHA3-256 digest of a message (GenerateKeyPair, SHA3Ed25519Signer)
//   - BIP-39 mnemonics and deterministic keypair derivation from them
//     (NewMnemonic, ValidateMnemonic, KeyPairFromMnemonic)
//   - SS58 address encoding for substrate accounts (SS58Encode, SS58Decode,
//     SS58Resolver)
//   - Standard base64 and hex helpers (B64, Hex)
//
// # Notes
//
// Private keys are accepted either as a 32-byte seed or as the 64-byte
// seed||public layout. Signing expands the key into a temporary buffer that
// is wiped before returning.
package crypto
