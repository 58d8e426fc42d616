package store_test

import (
	"context"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	"sorawallet/internal/domain"
	"sorawallet/internal/store"
)

func TestLegacyStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	secrets := store.NewMemorySecretStore()
	kp := newKeys(t)
	want := domain.LegacyCredentials{
		RegistrationComplete: true,
		Name:                 "Legacy",
		Address:              "cnLegacy",
		MigrationStatus:      "CLAIMED",
		Mnemonic:             "legacy words",
		KeyPair:              &kp,
	}
	require.NoError(t, store.WriteLegacy(ctx, secrets, want))

	got, err := store.NewLegacyStore(secrets).ReadLegacy(ctx)
	require.NoError(t, err)
	require.True(t, got.RegistrationComplete)
	require.Equal(t, want.Name, got.Name)
	require.Equal(t, want.Address, got.Address)
	require.Equal(t, want.MigrationStatus, got.MigrationStatus)
	require.Equal(t, want.Mnemonic, got.Mnemonic)
	require.NotNil(t, got.KeyPair)
	require.True(t, got.KeyPair.Equal(kp))
}

func TestLegacyStore_EmptyInstall(t *testing.T) {
	got, err := store.NewLegacyStore(store.NewMemorySecretStore()).ReadLegacy(context.Background())
	require.NoError(t, err)
	require.False(t, got.RegistrationComplete)
	require.Nil(t, got.KeyPair)
}

func TestLegacyStore_CorruptKeypair(t *testing.T) {
	ctx := context.Background()
	secrets := store.NewMemorySecretStore()
	require.NoError(t, secrets.Put(ctx, store.LegacyRegistrationStateKey, store.LegacyRegistrationFinished))
	require.NoError(t, secrets.Put(ctx, store.LegacyPrivateKeyKey, "nothex"))
	require.NoError(t, secrets.Put(ctx, store.LegacyPublicKeyKey, "00"))

	_, err := store.NewLegacyStore(secrets).ReadLegacy(ctx)
	require.ErrorIs(t, err, domain.ErrCorruptCredential)
}

func TestLegacyStore_UnfinishedRegistrationSkipsKeys(t *testing.T) {
	ctx := context.Background()
	secrets := store.NewMemorySecretStore()
	kp := newKeys(t)
	require.NoError(t, secrets.Put(ctx, store.LegacyRegistrationStateKey, ""))
	require.NoError(t, secrets.Put(ctx, store.LegacyPrivateKeyKey, hex.EncodeToString(kp.PrivateKey)))
	require.NoError(t, secrets.Put(ctx, store.LegacyPublicKeyKey, ""))

	got, err := store.NewLegacyStore(secrets).ReadLegacy(ctx)
	require.NoError(t, err)
	require.False(t, got.RegistrationComplete)
	require.Nil(t, got.KeyPair)
}
