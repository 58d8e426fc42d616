package interfaces

import (
	"context"

	domaintypes "sorawallet/internal/domain/types"
)

// SecretStore is an encrypted key/value store. Get reports absent keys with
// found == false; values that fail to decrypt surface as an error.
type SecretStore interface {
	Put(ctx context.Context, key, value string) error
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Delete(ctx context.Context, key string) error
}

// CredentialStore keeps keypair, mnemonic and profile fields per account.
type CredentialStore interface {
	SaveKeys(ctx context.Context, account domaintypes.AccountID, keys domaintypes.KeyPair) error
	// RetrieveKeys returns nil, nil for an account with no keys yet.
	RetrieveKeys(ctx context.Context, account domaintypes.AccountID) (*domaintypes.KeyPair, error)

	SaveMnemonic(ctx context.Context, account domaintypes.AccountID, mnemonic string) error
	RetrieveMnemonic(ctx context.Context, account domaintypes.AccountID) (string, bool, error)

	SaveAddress(ctx context.Context, account domaintypes.AccountID, address domaintypes.Address) error
	GetAddress(ctx context.Context, account domaintypes.AccountID) (domaintypes.Address, bool, error)

	SaveName(ctx context.Context, account domaintypes.AccountID, name string) error
	RetrieveName(ctx context.Context, account domaintypes.AccountID) (string, bool, error)

	SaveMigrationStatus(ctx context.Context, account domaintypes.AccountID, status string) error
	RetrieveMigrationStatus(ctx context.Context, account domaintypes.AccountID) (string, bool, error)

	DeleteAccount(ctx context.Context, account domaintypes.AccountID) error
}

// AccountRepository lists local accounts and tracks which one is active.
type AccountRepository interface {
	Lookup(ctx context.Context, id domaintypes.AccountID) (domaintypes.Account, bool, error)
	Insert(ctx context.Context, account domaintypes.Account) error
	List(ctx context.Context) ([]domaintypes.Account, error)
	SetActive(ctx context.Context, id domaintypes.AccountID) error
	Active(ctx context.Context) (domaintypes.Account, bool, error)
	Delete(ctx context.Context, id domaintypes.AccountID) error
}

// LegacyReader reads the unnamespaced single-account layout.
type LegacyReader interface {
	ReadLegacy(ctx context.Context) (domaintypes.LegacyCredentials, error)
}
