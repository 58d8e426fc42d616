package store

import (
	"context"
	"encoding/hex"

	"github.com/pkg/errors"

	"sorawallet/internal/domain"
)

const (
	opRetrieveKeys = "store.retrieve_keys"

	seedKeySize    = 32
	privateKeySize = 64
	publicKeySize  = 32
)

// ErrNoAccount is returned for an empty account identifier.
var ErrNoAccount = errors.New("account id is required")

// secretKey is the composite (account, field) key of one credential. Its
// string form hex encodes the account id, so no id can collide with a
// prefix or suffix of another.
type secretKey struct {
	account domain.AccountID
	field   domain.CredentialField
}

func (k secretKey) String() string {
	return "acct/" + hex.EncodeToString([]byte(k.account)) + "/" + string(k.field)
}

// CredentialStore namespaces keypair, mnemonic and profile fields per
// account inside a SecretStore.
type CredentialStore struct {
	secrets domain.SecretStore
}

// NewCredentialStore returns a CredentialStore backed by secrets.
func NewCredentialStore(secrets domain.SecretStore) *CredentialStore {
	return &CredentialStore{secrets: secrets}
}

// SaveKeys writes the hex encoded private key, public key and nonce. The
// three writes are not atomic; a torn keypair reads back as corrupt.
func (c *CredentialStore) SaveKeys(ctx context.Context, account domain.AccountID, keys domain.KeyPair) error {
	if account == "" {
		return ErrNoAccount
	}
	if err := c.put(ctx, account, domain.FieldPrivateKey, hex.EncodeToString(keys.PrivateKey)); err != nil {
		return err
	}
	if err := c.put(ctx, account, domain.FieldPublicKey, hex.EncodeToString(keys.PublicKey)); err != nil {
		return err
	}
	return c.put(ctx, account, domain.FieldNonce, hex.EncodeToString(keys.Nonce))
}

// RetrieveKeys returns nil, nil when the account has no keys. A keypair
// with only one half present, undecodable hex or invalid lengths is a
// CorruptCredential.
func (c *CredentialStore) RetrieveKeys(ctx context.Context, account domain.AccountID) (*domain.KeyPair, error) {
	if account == "" {
		return nil, ErrNoAccount
	}
	priv, _, err := c.get(ctx, account, domain.FieldPrivateKey)
	if err != nil {
		return nil, err
	}
	pub, _, err := c.get(ctx, account, domain.FieldPublicKey)
	if err != nil {
		return nil, err
	}
	nonce, _, err := c.get(ctx, account, domain.FieldNonce)
	if err != nil {
		return nil, err
	}
	return decodeKeyPair(opRetrieveKeys, priv, pub, nonce)
}

// decodeKeyPair turns stored hex fields into a keypair. Both halves empty
// means absent.
func decodeKeyPair(op, privHex, pubHex, nonceHex string) (*domain.KeyPair, error) {
	switch {
	case privHex == "" && pubHex == "":
		return nil, nil
	case privHex == "" || pubHex == "":
		return nil, domain.E(domain.KindCorruptCredential, op, errors.New("partially written keypair"))
	}
	priv, err := hex.DecodeString(privHex)
	if err != nil {
		return nil, domain.E(domain.KindCorruptCredential, op, errors.Wrap(err, "private key"))
	}
	pub, err := hex.DecodeString(pubHex)
	if err != nil {
		return nil, domain.E(domain.KindCorruptCredential, op, errors.Wrap(err, "public key"))
	}
	nonce, err := hex.DecodeString(nonceHex)
	if err != nil {
		return nil, domain.E(domain.KindCorruptCredential, op, errors.Wrap(err, "nonce"))
	}
	if (len(priv) != seedKeySize && len(priv) != privateKeySize) || len(pub) != publicKeySize {
		return nil, domain.E(domain.KindCorruptCredential, op,
			errors.Errorf("unexpected key lengths: private %d, public %d", len(priv), len(pub)))
	}
	if len(nonce) == 0 {
		nonce = nil
	}
	return &domain.KeyPair{PrivateKey: priv, PublicKey: pub, Nonce: nonce}, nil
}

// SaveMnemonic stores the recovery phrase of account.
func (c *CredentialStore) SaveMnemonic(ctx context.Context, account domain.AccountID, mnemonic string) error {
	return c.put(ctx, account, domain.FieldMnemonic, mnemonic)
}

// RetrieveMnemonic returns the recovery phrase; an empty value counts as absent.
func (c *CredentialStore) RetrieveMnemonic(ctx context.Context, account domain.AccountID) (string, bool, error) {
	return c.getNonEmpty(ctx, account, domain.FieldMnemonic)
}

// SaveAddress stores the on-chain address of account.
func (c *CredentialStore) SaveAddress(ctx context.Context, account domain.AccountID, address domain.Address) error {
	return c.put(ctx, account, domain.FieldAddress, address.String())
}

// GetAddress returns the address stored for account.
func (c *CredentialStore) GetAddress(ctx context.Context, account domain.AccountID) (domain.Address, bool, error) {
	v, ok, err := c.getNonEmpty(ctx, account, domain.FieldAddress)
	return domain.Address(v), ok, err
}

// SaveName stores the display name of account.
func (c *CredentialStore) SaveName(ctx context.Context, account domain.AccountID, name string) error {
	return c.put(ctx, account, domain.FieldName, name)
}

// RetrieveName returns the display name of account.
func (c *CredentialStore) RetrieveName(ctx context.Context, account domain.AccountID) (string, bool, error) {
	return c.getNonEmpty(ctx, account, domain.FieldName)
}

// SaveMigrationStatus stores the legacy migration flags of account.
func (c *CredentialStore) SaveMigrationStatus(ctx context.Context, account domain.AccountID, status string) error {
	return c.put(ctx, account, domain.FieldMigrationStatus, status)
}

// RetrieveMigrationStatus returns the migration flags of account.
func (c *CredentialStore) RetrieveMigrationStatus(ctx context.Context, account domain.AccountID) (string, bool, error) {
	return c.getNonEmpty(ctx, account, domain.FieldMigrationStatus)
}

// DeleteAccount removes every credential field of account.
func (c *CredentialStore) DeleteAccount(ctx context.Context, account domain.AccountID) error {
	if account == "" {
		return ErrNoAccount
	}
	for _, f := range domain.AllCredentialFields() {
		if err := c.secrets.Delete(ctx, secretKey{account: account, field: f}.String()); err != nil {
			return errors.Wrapf(err, "delete %s", f)
		}
	}
	return nil
}

func (c *CredentialStore) put(ctx context.Context, account domain.AccountID, field domain.CredentialField, value string) error {
	if account == "" {
		return ErrNoAccount
	}
	if err := c.secrets.Put(ctx, secretKey{account: account, field: field}.String(), value); err != nil {
		return errors.Wrapf(err, "save %s", field)
	}
	return nil
}

func (c *CredentialStore) get(ctx context.Context, account domain.AccountID, field domain.CredentialField) (string, bool, error) {
	if account == "" {
		return "", false, ErrNoAccount
	}
	v, ok, err := c.secrets.Get(ctx, secretKey{account: account, field: field}.String())
	if err != nil {
		return "", false, errors.Wrapf(err, "read %s", field)
	}
	return v, ok, nil
}

func (c *CredentialStore) getNonEmpty(ctx context.Context, account domain.AccountID, field domain.CredentialField) (string, bool, error) {
	v, ok, err := c.get(ctx, account, field)
	if err != nil || !ok || v == "" {
		return "", false, err
	}
	return v, true, nil
}

var _ domain.CredentialStore = (*CredentialStore)(nil)
