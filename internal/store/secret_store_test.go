package store_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"sorawallet/internal/domain"
	"sorawallet/internal/store"
)

// fastKDF keeps scrypt cheap in tests.
var fastKDF = store.KDFParams{N: 1 << 10, R: 8, P: 1}

func openFileStore(t *testing.T, dir, pass string) *store.FileSecretStore {
	t.Helper()
	s, err := store.OpenFileSecretStore(store.FileSecretStoreConfig{Dir: dir, Passphrase: pass, KDF: fastKDF})
	require.NoError(t, err)
	return s
}

func TestFileSecretStore_PutGet_OK(t *testing.T) {
	ctx := context.Background()
	home := t.TempDir()

	var s domain.SecretStore = openFileStore(t, home, "pass")
	require.NoError(t, s.Put(ctx, "k", "value"))
	require.NoError(t, s.Put(ctx, "empty", ""))

	v, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "value", v)

	v, ok, err = s.Get(ctx, "empty")
	require.NoError(t, err)
	require.True(t, ok, "explicit empty string is stored, not absent")
	require.Equal(t, "", v)

	_, ok, err = s.Get(ctx, "missing")
	require.NoError(t, err)
	require.False(t, ok)

	// Reopen with the same passphrase.
	s = openFileStore(t, home, "pass")
	v, ok, err = s.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "value", v)
}

func TestFileSecretStore_WrongPassphrase_Fails(t *testing.T) {
	home := t.TempDir()
	openFileStore(t, home, "correct")

	_, err := store.OpenFileSecretStore(store.FileSecretStoreConfig{Dir: home, Passphrase: "wrong", KDF: fastKDF})
	require.ErrorIs(t, err, store.ErrWrongPassphrase)
}

func TestFileSecretStore_NoPlaintextOnDisk(t *testing.T) {
	ctx := context.Background()
	home := t.TempDir()
	s := openFileStore(t, home, "pass")
	require.NoError(t, s.Put(ctx, "mnemonic", "abandon ability able about"))

	raw, err := os.ReadFile(filepath.Join(home, "secrets.json.enc"))
	require.NoError(t, err)
	require.NotContains(t, string(raw), "abandon")
}

func TestFileSecretStore_SwappedValueIsCorrupt(t *testing.T) {
	ctx := context.Background()
	home := t.TempDir()
	s := openFileStore(t, home, "pass")
	require.NoError(t, s.Put(ctx, "a", "alpha"))
	require.NoError(t, s.Put(ctx, "b", "beta"))

	path := filepath.Join(home, "secrets.json.enc")
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var f struct {
		Header  json.RawMessage   `json:"header"`
		Entries map[string][]byte `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(raw, &f))
	f.Entries["a"], f.Entries["b"] = f.Entries["b"], f.Entries["a"]
	raw, err = json.Marshal(f)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	_, _, err = s.Get(ctx, "a")
	require.ErrorIs(t, err, domain.ErrCorruptCredential)
}

func TestFileSecretStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := openFileStore(t, t.TempDir(), "pass")
	require.NoError(t, s.Put(ctx, "k", "v"))
	require.NoError(t, s.Delete(ctx, "k"))
	require.NoError(t, s.Delete(ctx, "k"))

	_, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSecretStores_RejectReservedKeys(t *testing.T) {
	ctx := context.Background()
	stores := map[string]domain.SecretStore{
		"file":   openFileStore(t, t.TempDir(), "pass"),
		"memory": store.NewMemorySecretStore(),
	}
	for name, s := range stores {
		t.Run(name, func(t *testing.T) {
			require.ErrorIs(t, s.Put(ctx, "", "v"), store.ErrReservedKey)
			require.ErrorIs(t, s.Put(ctx, "\x00check", "v"), store.ErrReservedKey)
		})
	}
}

func TestSecretStores_HonourCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := store.NewMemorySecretStore()
	require.ErrorIs(t, s.Put(ctx, "k", "v"), context.Canceled)
	_, _, err := s.Get(ctx, "k")
	require.ErrorIs(t, err, context.Canceled)
}
