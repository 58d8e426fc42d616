package interfaces

import (
	"context"

	domaintypes "sorawallet/internal/domain/types"
)

// Signer signs a canonical pre-image with an account keypair.
type Signer interface {
	Sign(keys domaintypes.KeyPair, message []byte) ([]byte, error)
	Verify(publicKey, message, signature []byte) bool
}

// AddressResolver maps a public key to its on-chain account address.
type AddressResolver interface {
	ResolveAddress(ctx context.Context, publicKey []byte) (domaintypes.Address, error)
}

// AccountService manages the lifecycle of local accounts.
type AccountService interface {
	Create(ctx context.Context, name string) (domaintypes.Account, string, error)
	Recover(ctx context.Context, name, mnemonic string) (domaintypes.Account, error)
	Switch(ctx context.Context, id domaintypes.AccountID) error
	Delete(ctx context.Context, id domaintypes.AccountID) error
	Activate(ctx context.Context) (domaintypes.Account, bool, error)
	ActiveDDO(ctx context.Context) (domaintypes.DDO, error)
	ExportMnemonic(ctx context.Context, id domaintypes.AccountID) (string, error)
}

// MigrationService moves the legacy single-account layout into namespaced
// accounts exactly once.
type MigrationService interface {
	Status(ctx context.Context) (domaintypes.MigrationState, error)
	Migrate(ctx context.Context) (domaintypes.MigrationState, error)
}
