package crypto

import (
	"crypto/sha256"
	"io"
	"strings"

	ed "github.com/oasisprotocol/curve25519-voi/primitives/ed25519"
	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip39"
	"golang.org/x/crypto/hkdf"

	"sorawallet/internal/domain"
	"sorawallet/internal/util/memzero"
)

const hkdfInfoSigning = "sorawallet/account/signing/v1"

var (
	ErrMnemonicRequired = errors.New("mnemonic is required")
	ErrInvalidMnemonic  = errors.New("invalid mnemonic")
)

// NewMnemonic returns a fresh 24-word BIP-39 recovery phrase.
func NewMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(256)
	if err != nil {
		return "", errors.Wrap(err, "mnemonic entropy")
	}
	defer memzero.Zero(entropy)
	return bip39.NewMnemonic(entropy)
}

// ValidateMnemonic normalizes and checks a recovery phrase.
func ValidateMnemonic(mnemonic string) (string, error) {
	mnemonic = strings.Join(strings.Fields(mnemonic), " ")
	if mnemonic == "" {
		return "", ErrMnemonicRequired
	}
	if !bip39.IsMnemonicValid(mnemonic) {
		return "", ErrInvalidMnemonic
	}
	return mnemonic, nil
}

// KeyPairFromMnemonic deterministically derives the account keypair for a
// recovery phrase. The same phrase always yields the same keypair.
func KeyPairFromMnemonic(mnemonic string) (domain.KeyPair, error) {
	mnemonic, err := ValidateMnemonic(mnemonic)
	if err != nil {
		return domain.KeyPair{}, err
	}
	seed := bip39.NewSeed(mnemonic, "")
	defer memzero.Zero(seed)

	signingSeed := make([]byte, ed.SeedSize)
	defer memzero.Zero(signingSeed)
	reader := hkdf.New(sha256.New, seed, nil, []byte(hkdfInfoSigning))
	if _, err := io.ReadFull(reader, signingSeed); err != nil {
		return domain.KeyPair{}, errors.Wrap(err, "derive signing seed")
	}

	priv := ed.NewKeyFromSeed(signingSeed)
	pub := append([]byte(nil), priv[ed.SeedSize:]...)
	return domain.KeyPair{PrivateKey: priv, PublicKey: pub}, nil
}
