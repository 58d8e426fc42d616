package crypto_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"sorawallet/internal/crypto"
	"sorawallet/internal/domain"
)

func TestSS58_RoundTrip(t *testing.T) {
	pub := bytes.Repeat([]byte{0xab}, 32)
	for _, prefix := range []uint16{0, 42, crypto.SoraSS58Prefix, 1000} {
		addr, err := crypto.SS58Encode(pub, prefix)
		require.NoError(t, err)

		gotPub, gotPrefix, err := crypto.SS58Decode(addr)
		require.NoError(t, err)
		require.Equal(t, pub, gotPub)
		require.Equal(t, prefix, gotPrefix)
	}
}

func TestSS58_ChecksumDetectsTampering(t *testing.T) {
	addr, err := crypto.SS58Encode(bytes.Repeat([]byte{1}, 32), crypto.SoraSS58Prefix)
	require.NoError(t, err)

	raw := []byte(addr)
	last := raw[len(raw)-1]
	if last == 'z' {
		raw[len(raw)-1] = 'y'
	} else {
		raw[len(raw)-1] = 'z'
	}
	_, _, err = crypto.SS58Decode(domain.Address(raw))
	require.ErrorIs(t, err, crypto.ErrInvalidAddress)
}

func TestSS58Resolver_MatchesEncode(t *testing.T) {
	pub := bytes.Repeat([]byte{7}, 32)
	want, err := crypto.SS58Encode(pub, crypto.SoraSS58Prefix)
	require.NoError(t, err)

	got, err := crypto.SS58Resolver{Prefix: crypto.SoraSS58Prefix}.ResolveAddress(context.Background(), pub)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestSS58Encode_RejectsShortKey(t *testing.T) {
	_, err := crypto.SS58Encode([]byte{1, 2}, crypto.SoraSS58Prefix)
	require.Error(t, err)
}
