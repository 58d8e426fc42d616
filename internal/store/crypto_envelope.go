package store

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/subtle"

	"github.com/pkg/errors"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"

	"sorawallet/internal/domain"
	"sorawallet/internal/util/memzero"
)

const (
	// The current supported version of the keystore header stored on disk.
	keystoreFormatVersion = 1

	keystoreSaltSize = 16
	keystoreCheck    = "sorawallet keystore v1"
	headerCheckAD    = "\x00check"
)

var (
	// Returned when the passphrase does not open the keystore.
	ErrWrongPassphrase = errors.New("wrong passphrase or corrupted keystore")
	// Returned for a header written by a newer release.
	ErrUnsupportedKeystore = errors.New("unsupported keystore version")
)

// KDFParams are the scrypt cost parameters used to derive the master key.
type KDFParams struct {
	N int `json:"scrypt_N" yaml:"n"`
	R int `json:"scrypt_r" yaml:"r"`
	P int `json:"scrypt_p" yaml:"p"`
}

// DefaultKDFParams returns the scrypt tunables for new keystores.
func DefaultKDFParams() KDFParams { return KDFParams{N: 1 << 15, R: 8, P: 1} }

func (p KDFParams) orDefault() KDFParams {
	if p.N == 0 || p.R == 0 || p.P == 0 {
		return DefaultKDFParams()
	}
	return p
}

// keystoreHeader is persisted next to the sealed values. Check proves the
// passphrase on open without touching any real secret.
type keystoreHeader struct {
	V     int       `json:"v"`
	Salt  []byte    `json:"salt"`
	KDF   KDFParams `json:"kdf"`
	Check []byte    `json:"check"`
}

// sealer encrypts values with XChaCha20-Poly1305 under a master key derived
// once from the passphrase. The storage key is bound as associated data.
type sealer struct {
	aead cipher.AEAD
}

// newKeystore derives a master key with a fresh salt and returns the sealer
// and the header to persist.
func newKeystore(passphrase string, params KDFParams) (*sealer, keystoreHeader, error) {
	params = params.orDefault()
	salt := make([]byte, keystoreSaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, keystoreHeader{}, errors.Wrap(err, "keystore salt")
	}
	s, err := deriveSealer(passphrase, salt, params)
	if err != nil {
		return nil, keystoreHeader{}, err
	}
	check, err := s.seal(headerCheckAD, []byte(keystoreCheck))
	if err != nil {
		return nil, keystoreHeader{}, err
	}
	return s, keystoreHeader{V: keystoreFormatVersion, Salt: salt, KDF: params, Check: check}, nil
}

// openKeystore re-derives the master key described by h and verifies it.
func openKeystore(passphrase string, h keystoreHeader) (*sealer, error) {
	if h.V > keystoreFormatVersion {
		return nil, errors.Wrapf(ErrUnsupportedKeystore, "version %d", h.V)
	}
	s, err := deriveSealer(passphrase, h.Salt, h.KDF)
	if err != nil {
		return nil, err
	}
	pt, err := s.open(headerCheckAD, h.Check)
	if err != nil || subtle.ConstantTimeCompare(pt, []byte(keystoreCheck)) != 1 {
		return nil, ErrWrongPassphrase
	}
	return s, nil
}

func deriveSealer(passphrase string, salt []byte, p KDFParams) (*sealer, error) {
	key, err := scrypt.Key([]byte(passphrase), salt, p.N, p.R, p.P, chacha20poly1305.KeySize)
	if err != nil {
		return nil, errors.Wrap(err, "derive keystore key")
	}
	defer memzero.Zero(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	return &sealer{aead: aead}, nil
}

// seal returns nonce || ciphertext.
func (s *sealer) seal(key string, plaintext []byte) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(plaintext)+s.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, errors.Wrap(err, "seal nonce")
	}
	return s.aead.Seal(nonce, nonce, plaintext, []byte(key)), nil
}

// open reverses seal. Any failure is a corrupt credential.
func (s *sealer) open(key string, blob []byte) ([]byte, error) {
	if len(blob) < s.aead.NonceSize()+s.aead.Overhead() {
		return nil, domain.E(domain.KindCorruptCredential, "store.open", errors.New("sealed value too short"))
	}
	nonce, ct := blob[:s.aead.NonceSize()], blob[s.aead.NonceSize():]
	pt, err := s.aead.Open(nil, nonce, ct, []byte(key))
	if err != nil {
		return nil, domain.E(domain.KindCorruptCredential, "store.open", err)
	}
	return pt, nil
}
