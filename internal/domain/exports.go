package domain

import (
	interfaces "sorawallet/internal/domain/interfaces"
	types "sorawallet/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	AccountID            = types.AccountID
	DID                  = types.DID
	Address              = types.Address
	Account              = types.Account
	KeyPair              = types.KeyPair
	CredentialField      = types.CredentialField
	DDO                  = types.DDO
	DDOAuthentication    = types.DDOAuthentication
	DDOPublicKey         = types.DDOPublicKey
	Document             = types.Document
	FlatMap              = types.FlatMap
	SaltedField          = types.SaltedField
	SaltedMap            = types.SaltedMap
	Salts                = types.Salts
	AuthenticatedRequest = types.AuthenticatedRequest
	MigrationState       = types.MigrationState
	LegacyCredentials    = types.LegacyCredentials
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	SecretStore       = interfaces.SecretStore
	CredentialStore   = interfaces.CredentialStore
	AccountRepository = interfaces.AccountRepository
	LegacyReader      = interfaces.LegacyReader
	Signer            = interfaces.Signer
	AddressResolver   = interfaces.AddressResolver
	AccountService    = interfaces.AccountService
	MigrationService  = interfaces.MigrationService
	RelayClient       = interfaces.RelayClient
)

// Re-exported constants.
const (
	FieldPrivateKey      = types.FieldPrivateKey
	FieldPublicKey       = types.FieldPublicKey
	FieldNonce           = types.FieldNonce
	FieldMnemonic        = types.FieldMnemonic
	FieldAddress         = types.FieldAddress
	FieldName            = types.FieldName
	FieldMigrationStatus = types.FieldMigrationStatus

	MigrationNotNeeded = types.MigrationNotNeeded
	MigrationNeeded    = types.MigrationNeeded
	MigrationDone      = types.MigrationDone
)

// AllCredentialFields returns every per-account credential field.
func AllCredentialFields() []CredentialField {
	return append([]CredentialField(nil), types.AllCredentialFields...)
}
