package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig_DefaultsWithoutFile(t *testing.T) {
	home := t.TempDir()
	cfg, err := LoadConfig(home)
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(home).BackendURL, cfg.BackendURL)
	require.Equal(t, BackendFile, cfg.SecretStore)
	require.Equal(t, home, cfg.Home)
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	home := t.TempDir()
	yml := "backend_url: https://wallet.example\nsecret_store: badger\nmax_clock_skew: 30s\nkdf:\n  n: 1024\n  r: 8\n  p: 1\n"
	require.NoError(t, os.WriteFile(filepath.Join(home, ConfigFile), []byte(yml), 0o600))
	t.Setenv(EnvSecretStore, BackendMemory)
	t.Setenv(EnvPassphrase, "from-env")

	cfg, err := LoadConfig(home)
	require.NoError(t, err)
	require.Equal(t, "https://wallet.example", cfg.BackendURL)
	require.Equal(t, BackendMemory, cfg.SecretStore)
	require.Equal(t, "from-env", cfg.Passphrase)
	require.Equal(t, 30*time.Second, cfg.MaxClockSkew)
	require.Equal(t, 1024, cfg.KDF.N)
}

func TestLoadConfig_RejectsUnknownBackend(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(home, ConfigFile), []byte("secret_store: s3\n"), 0o600))
	_, err := LoadConfig(home)
	require.Error(t, err)
}

func TestConfig_SaveOmitsPassphrase(t *testing.T) {
	cfg := DefaultConfig(t.TempDir())
	cfg.Passphrase = "Top-Secret-123"
	require.NoError(t, cfg.Save())

	b, err := os.ReadFile(filepath.Join(cfg.Home, ConfigFile))
	require.NoError(t, err)
	require.NotContains(t, string(b), "Top-Secret")

	loaded, err := LoadConfig(cfg.Home)
	require.NoError(t, err)
	require.Equal(t, cfg.BackendURL, loaded.BackendURL)
	require.Equal(t, cfg.MaxClockSkew, loaded.MaxClockSkew)
}
