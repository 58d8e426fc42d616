package crypto

import (
	"context"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"

	"sorawallet/internal/domain"
)

// SoraSS58Prefix is the SS58 network identifier of the SORA chain.
const SoraSS58Prefix uint16 = 69

const ss58ChecksumLen = 2

var (
	ss58Context = []byte("SS58PRE")

	ErrInvalidAddress = errors.New("invalid ss58 address")
)

// SS58Encode encodes a 32-byte public key as an SS58 address for prefix.
func SS58Encode(publicKey []byte, prefix uint16) (domain.Address, error) {
	if len(publicKey) != 32 {
		return "", errors.Errorf("ss58: want 32-byte public key, got %d", len(publicKey))
	}
	pre, err := ss58PrefixBytes(prefix)
	if err != nil {
		return "", err
	}
	payload := append(pre, publicKey...)
	sum := ss58Checksum(payload)
	return domain.Address(base58.Encode(append(payload, sum[:ss58ChecksumLen]...))), nil
}

// SS58Decode returns the public key and network prefix of an address.
func SS58Decode(addr domain.Address) ([]byte, uint16, error) {
	raw, err := base58.Decode(addr.String())
	if err != nil {
		return nil, 0, errors.Wrap(ErrInvalidAddress, err.Error())
	}
	if len(raw) < 1 {
		return nil, 0, ErrInvalidAddress
	}
	var (
		prefix    uint16
		prefixLen int
	)
	switch {
	case raw[0] < 64:
		prefix, prefixLen = uint16(raw[0]), 1
	case raw[0] < 128:
		if len(raw) < 2 {
			return nil, 0, ErrInvalidAddress
		}
		lower := (raw[0]&0x3f)<<2 | raw[1]>>6
		upper := raw[1] & 0x3f
		prefix, prefixLen = uint16(lower)|uint16(upper)<<8, 2
	default:
		return nil, 0, ErrInvalidAddress
	}
	if len(raw) != prefixLen+32+ss58ChecksumLen {
		return nil, 0, ErrInvalidAddress
	}
	payload := raw[:prefixLen+32]
	sum := ss58Checksum(payload)
	if sum[0] != raw[len(raw)-2] || sum[1] != raw[len(raw)-1] {
		return nil, 0, errors.Wrap(ErrInvalidAddress, "checksum mismatch")
	}
	return append([]byte(nil), raw[prefixLen:prefixLen+32]...), prefix, nil
}

func ss58PrefixBytes(prefix uint16) ([]byte, error) {
	switch {
	case prefix < 64:
		return []byte{byte(prefix)}, nil
	case prefix < 16384:
		first := byte((prefix&0x00fc)>>2) | 0x40
		second := byte(prefix>>8) | byte((prefix&0x0003)<<6)
		return []byte{first, second}, nil
	default:
		return nil, errors.Errorf("ss58: prefix %d out of range", prefix)
	}
}

func ss58Checksum(payload []byte) [blake2b.Size]byte {
	buf := make([]byte, 0, len(ss58Context)+len(payload))
	buf = append(buf, ss58Context...)
	buf = append(buf, payload...)
	return blake2b.Sum512(buf)
}

// SS58Resolver resolves addresses locally from public keys.
type SS58Resolver struct {
	Prefix uint16
}

// ResolveAddress encodes publicKey under the resolver's network prefix.
func (r SS58Resolver) ResolveAddress(ctx context.Context, publicKey []byte) (domain.Address, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return SS58Encode(publicKey, r.Prefix)
}

// Compile-time assertion that SS58Resolver implements domain.AddressResolver.
var _ domain.AddressResolver = SS58Resolver{}
