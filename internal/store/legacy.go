package store

import (
	"context"
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"

	"sorawallet/internal/domain"
)

// Unnamespaced keys of the single-account layout.
const (
	LegacyRegistrationStateKey = "PREFS_REGISTRATION_STATE"
	LegacyAccountNameKey       = "PREFS_ACCOUNT_NAME"
	LegacyMigrationStatusKey   = "PREFS_MIGRATION_STATUS"
	LegacyMnemonicKey          = "PREFS_MNEMONIC"
	LegacyPrivateKeyKey        = "PREFS_PRIVATE_KEY"
	LegacyPublicKeyKey         = "PREFS_PUBLIC_KEY"
	LegacyNonceKey             = "PREFS_NONCE"
	LegacyAddressKey           = "PREFS_ADDRESS"

	// LegacyRegistrationFinished marks a completed onboarding.
	LegacyRegistrationFinished = "REGISTRATION_FINISHED"

	opReadLegacy = "store.read_legacy"
)

// LegacyStore reads the single-account layout from a SecretStore.
type LegacyStore struct {
	secrets domain.SecretStore
}

// NewLegacyStore returns a LegacyStore backed by secrets.
func NewLegacyStore(secrets domain.SecretStore) *LegacyStore {
	return &LegacyStore{secrets: secrets}
}

// ReadLegacy returns every legacy field. Absent fields are zero; a torn or
// undecodable keypair is a CorruptCredential. Keys of an unfinished
// registration are never decoded and KeyPair stays nil.
func (l *LegacyStore) ReadLegacy(ctx context.Context) (domain.LegacyCredentials, error) {
	vals := make(map[string]string, 8)
	for _, k := range []string{
		LegacyRegistrationStateKey,
		LegacyAccountNameKey,
		LegacyMigrationStatusKey,
		LegacyMnemonicKey,
		LegacyPrivateKeyKey,
		LegacyPublicKeyKey,
		LegacyNonceKey,
		LegacyAddressKey,
	} {
		v, _, err := l.secrets.Get(ctx, k)
		if err != nil {
			return domain.LegacyCredentials{}, errors.Wrapf(err, "read %s", k)
		}
		vals[k] = v
	}

	creds := domain.LegacyCredentials{
		RegistrationComplete: strings.TrimSpace(vals[LegacyRegistrationStateKey]) == LegacyRegistrationFinished,
		Name:                 vals[LegacyAccountNameKey],
		Address:              domain.Address(vals[LegacyAddressKey]),
		MigrationStatus:      vals[LegacyMigrationStatusKey],
		Mnemonic:             vals[LegacyMnemonicKey],
	}
	if !creds.RegistrationComplete {
		return creds, nil
	}

	keys, err := decodeKeyPair(opReadLegacy, vals[LegacyPrivateKeyKey], vals[LegacyPublicKeyKey], vals[LegacyNonceKey])
	if err != nil {
		return domain.LegacyCredentials{}, err
	}
	creds.KeyPair = keys
	return creds, nil
}

// WriteLegacy stores creds in the single-account layout. It exists to seed
// stores imported from older installs.
func WriteLegacy(ctx context.Context, secrets domain.SecretStore, creds domain.LegacyCredentials) error {
	state := ""
	if creds.RegistrationComplete {
		state = LegacyRegistrationFinished
	}
	vals := map[string]string{
		LegacyRegistrationStateKey: state,
		LegacyAccountNameKey:       creds.Name,
		LegacyMigrationStatusKey:   creds.MigrationStatus,
		LegacyMnemonicKey:          creds.Mnemonic,
		LegacyAddressKey:           creds.Address.String(),
	}
	if creds.KeyPair != nil {
		vals[LegacyPrivateKeyKey] = hex.EncodeToString(creds.KeyPair.PrivateKey)
		vals[LegacyPublicKeyKey] = hex.EncodeToString(creds.KeyPair.PublicKey)
		vals[LegacyNonceKey] = hex.EncodeToString(creds.KeyPair.Nonce)
	}
	for k, v := range vals {
		if err := secrets.Put(ctx, k, v); err != nil {
			return errors.Wrapf(err, "write %s", k)
		}
	}
	return nil
}

var _ domain.LegacyReader = (*LegacyStore)(nil)
