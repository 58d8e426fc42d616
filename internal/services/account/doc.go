// Package account manages the lifecycle of local wallet accounts.
//
// Each account is derived from a BIP-39 recovery phrase. The service stores
// the keypair, phrase, address and name through the domain.CredentialStore,
// registers the profile in the domain.AccountRepository and installs the
// active account's keypair in the signing transport's key cell.
package account
