package crypto

import (
	"crypto/rand"
	"fmt"

	ed "github.com/oasisprotocol/curve25519-voi/primitives/ed25519"
	"github.com/pkg/errors"
	"golang.org/x/crypto/sha3"

	"sorawallet/internal/domain"
	"sorawallet/internal/util/memzero"
)

const opSign = "crypto.sign"

// GenerateKeyPair returns a new Ed25519 keypair in the 64-byte private layout.
func GenerateKeyPair() (domain.KeyPair, error) {
	pub, priv, err := ed.GenerateKey(rand.Reader)
	if err != nil {
		return domain.KeyPair{}, errors.Wrap(err, "generate ed25519 key")
	}
	return domain.KeyPair{PrivateKey: priv, PublicKey: pub}, nil
}

// SHA3Ed25519Signer signs SHA3-256(message) with Ed25519. Signatures are
// deterministic for a given key and message.
type SHA3Ed25519Signer struct{}

// Sign returns the signature of message, or a SigningFailure error when the
// keypair cannot be used.
func (SHA3Ed25519Signer) Sign(keys domain.KeyPair, message []byte) ([]byte, error) {
	priv, err := expandPrivateKey(keys)
	if err != nil {
		return nil, domain.E(domain.KindSigningFailure, opSign, err)
	}
	defer memzero.Zero(priv)

	digest := sha3.Sum256(message)
	return ed.Sign(priv, digest[:]), nil
}

// Verify checks sig over SHA3-256(message) against publicKey.
func (SHA3Ed25519Signer) Verify(publicKey, message, sig []byte) bool {
	if len(publicKey) != ed.PublicKeySize || len(sig) != ed.SignatureSize {
		return false
	}
	digest := sha3.Sum256(message)
	return ed.Verify(ed.PublicKey(publicKey), digest[:], sig)
}

// expandPrivateKey returns a fresh 64-byte private key matching keys.PublicKey.
func expandPrivateKey(keys domain.KeyPair) (ed.PrivateKey, error) {
	var priv ed.PrivateKey
	switch len(keys.PrivateKey) {
	case ed.SeedSize:
		priv = ed.NewKeyFromSeed(keys.PrivateKey)
	case ed.PrivateKeySize:
		priv = append(ed.PrivateKey(nil), keys.PrivateKey...)
	default:
		return nil, fmt.Errorf("private key: want %d or %d bytes, got %d",
			ed.SeedSize, ed.PrivateKeySize, len(keys.PrivateKey))
	}
	pub := priv[ed.SeedSize:]
	if len(keys.PublicKey) != ed.PublicKeySize || !equalBytes(pub, keys.PublicKey) {
		memzero.Zero(priv)
		return nil, errors.New("public key does not match private key")
	}
	return priv, nil
}

func equalBytes(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	var v byte
	for i := range a {
		v |= a[i] ^ b[i]
	}
	return v == 0
}

// Compile-time assertion that SHA3Ed25519Signer implements domain.Signer.
var _ domain.Signer = SHA3Ed25519Signer{}
