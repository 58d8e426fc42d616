package types

import "bytes"

// KeyPair is the signing material of one account. Nonce is optional and
// scheme specific.
type KeyPair struct {
	PrivateKey []byte `json:"private_key"`
	PublicKey  []byte `json:"public_key"`
	Nonce      []byte `json:"nonce,omitempty"`
}

// Equal reports whether both key pairs carry identical bytes.
func (k KeyPair) Equal(other KeyPair) bool {
	return bytes.Equal(k.PrivateKey, other.PrivateKey) &&
		bytes.Equal(k.PublicKey, other.PublicKey) &&
		bytes.Equal(k.Nonce, other.Nonce)
}

// Clone returns a deep copy so the caller may wipe its own buffers.
func (k KeyPair) Clone() KeyPair {
	return KeyPair{
		PrivateKey: append([]byte(nil), k.PrivateKey...),
		PublicKey:  append([]byte(nil), k.PublicKey...),
		Nonce:      append([]byte(nil), k.Nonce...),
	}
}

// CredentialField names one secret attribute stored per account.
type CredentialField string

const (
	FieldPrivateKey      CredentialField = "private_key"
	FieldPublicKey       CredentialField = "public_key"
	FieldNonce           CredentialField = "nonce"
	FieldMnemonic        CredentialField = "mnemonic"
	FieldAddress         CredentialField = "address"
	FieldName            CredentialField = "name"
	FieldMigrationStatus CredentialField = "migration_status"
)

// AllCredentialFields lists every per-account field, in write order.
var AllCredentialFields = []CredentialField{
	FieldPrivateKey,
	FieldPublicKey,
	FieldNonce,
	FieldMnemonic,
	FieldAddress,
	FieldName,
	FieldMigrationStatus,
}
