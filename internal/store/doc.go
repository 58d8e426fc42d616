// Package store provides persistence for the wallet's credentials and
// accounts.
//
// Secret stores seal every value with XChaCha20-Poly1305 under a master key
// derived once from the passphrase with scrypt. The storage key is bound as
// associated data, so a sealed value moved to another key fails to open.
// Absent keys and values that fail to open are reported differently: the
// first as found == false, the second as a CorruptCredential error.
//
// The package includes:
//   - Encrypted secret stores (FileSecretStore, BadgerSecretStore) and an
//     unencrypted MemorySecretStore for tests
//   - Per-account credentials namespaced by (account, field) (CredentialStore)
//   - Account profiles and the active account pointer (AccountFileStore)
//   - The unnamespaced single-account layout of older installs (LegacyStore)
//
// All methods are concurrency-safe via internal locking or the backing
// database's transactions.
package store
