package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"sorawallet/internal/store"
)

func TestBadgerSecretStore_InMemory(t *testing.T) {
	ctx := context.Background()
	s, err := store.OpenBadgerSecretStore(store.BadgerSecretStoreConfig{InMemory: true, Passphrase: "pass", KDF: fastKDF})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Put(ctx, "k", "v"))
	v, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v", v)

	require.NoError(t, s.Delete(ctx, "k"))
	_, ok, err = s.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestBadgerSecretStore_ReopenOnDisk(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := store.OpenBadgerSecretStore(store.BadgerSecretStoreConfig{Dir: dir, Passphrase: "pass", KDF: fastKDF})
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, "k", "persisted"))
	require.NoError(t, s.Close())

	_, err = store.OpenBadgerSecretStore(store.BadgerSecretStoreConfig{Dir: dir, Passphrase: "nope", KDF: fastKDF})
	require.ErrorIs(t, err, store.ErrWrongPassphrase)

	s, err = store.OpenBadgerSecretStore(store.BadgerSecretStoreConfig{Dir: dir, Passphrase: "pass", KDF: fastKDF})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	v, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "persisted", v)
}
