package did

import (
	"encoding/hex"
	"strings"
	"time"

	"github.com/pkg/errors"

	"sorawallet/internal/crypto"
	"sorawallet/internal/domain"
)

const (
	// Method is the DID method name.
	Method = "sora"
	// KeyFragment is appended to a DID to reference its signing key.
	KeyFragment = "#keys-1"

	// KeyType is the public key entry type in a DDO.
	KeyType = "Ed25519VerificationKey2018"
	// AuthenticationType is the authentication entry type in a DDO.
	AuthenticationType = "Ed25519SignatureAuthentication2018"

	identifierLen = 20
	prefix        = "did:" + Method + ":"
)

var (
	ErrShortPublicKey = errors.New("public key too short for did derivation")
	ErrMalformedDID   = errors.New("malformed did")
	ErrOwnerMismatch  = errors.New("owner does not match public key")
	ErrInvalidDDO     = errors.New("invalid ddo")
)

// DeriveDID returns the DID owned by publicKey.
func DeriveDID(publicKey []byte) (domain.DID, error) {
	if len(publicKey)*2 < identifierLen {
		return "", ErrShortPublicKey
	}
	return domain.DID(prefix + crypto.Hex(publicKey)[:identifierLen]), nil
}

// KeyRef returns the reference of the signing key of owner.
func KeyRef(owner domain.DID) string { return owner.String() + KeyFragment }

// Parse splits a DID into method and identifier.
func Parse(d domain.DID) (method, identifier string, err error) {
	parts := strings.SplitN(d.String(), ":", 3)
	if len(parts) != 3 || parts[0] != "did" || parts[1] == "" || parts[2] == "" {
		return "", "", errors.Wrapf(ErrMalformedDID, "%q", d)
	}
	return parts[1], parts[2], nil
}

// BuildDDO assembles the document for owner. owner must be the DID derived
// from publicKey.
func BuildDDO(owner domain.DID, publicKey []byte, created time.Time) (domain.DDO, error) {
	derived, err := DeriveDID(publicKey)
	if err != nil {
		return domain.DDO{}, err
	}
	if derived != owner {
		return domain.DDO{}, errors.Wrapf(ErrOwnerMismatch, "owner %s, key derives %s", owner, derived)
	}
	ref := KeyRef(owner)
	return domain.DDO{
		ID: owner,
		Authentication: []domain.DDOAuthentication{
			{ID: ref, Type: AuthenticationType},
		},
		Created: created.UTC().Format(time.RFC3339),
		PublicKey: []domain.DDOPublicKey{
			{ID: ref, Type: KeyType, Owner: owner, PublicKeyHex: crypto.Hex(publicKey)},
		},
	}, nil
}

// Validate checks that ddo is internally consistent: every key belongs to the
// document's DID and derives it, and authentication references a listed key.
func Validate(ddo domain.DDO) error {
	if _, _, err := Parse(ddo.ID); err != nil {
		return errors.Wrap(ErrInvalidDDO, err.Error())
	}
	if len(ddo.PublicKey) == 0 || len(ddo.Authentication) == 0 {
		return errors.Wrap(ErrInvalidDDO, "missing key or authentication entry")
	}
	if _, err := time.Parse(time.RFC3339, ddo.Created); err != nil {
		return errors.Wrap(ErrInvalidDDO, "created timestamp")
	}
	keys := make(map[string]struct{}, len(ddo.PublicKey))
	for _, pk := range ddo.PublicKey {
		if pk.Owner != ddo.ID {
			return errors.Wrapf(ErrInvalidDDO, "key %s owned by %s", pk.ID, pk.Owner)
		}
		raw, err := hex.DecodeString(pk.PublicKeyHex)
		if err != nil {
			return errors.Wrapf(ErrInvalidDDO, "key %s: bad hex", pk.ID)
		}
		derived, err := DeriveDID(raw)
		if err != nil || derived != ddo.ID {
			return errors.Wrapf(ErrInvalidDDO, "key %s does not derive %s", pk.ID, ddo.ID)
		}
		keys[pk.ID] = struct{}{}
	}
	for _, a := range ddo.Authentication {
		if _, ok := keys[a.ID]; !ok {
			return errors.Wrapf(ErrInvalidDDO, "authentication %s references unknown key", a.ID)
		}
	}
	return nil
}

// PublicKey returns the raw bytes of the key referenced by ref.
func PublicKey(ddo domain.DDO, ref string) ([]byte, error) {
	for _, pk := range ddo.PublicKey {
		if pk.ID == ref {
			raw, err := hex.DecodeString(pk.PublicKeyHex)
			if err != nil {
				return nil, errors.Wrap(ErrInvalidDDO, "bad public key hex")
			}
			return raw, nil
		}
	}
	return nil, errors.Wrapf(ErrInvalidDDO, "no key %s", ref)
}
