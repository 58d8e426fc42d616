package app_test

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"sorawallet/internal/app"
	"sorawallet/internal/auth"
	"sorawallet/internal/crypto"
	"sorawallet/internal/domain"
	"sorawallet/internal/relay"
	"sorawallet/internal/store"
)

var fastKDF = store.KDFParams{N: 1 << 10, R: 8, P: 1}

func quiet() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func testConfig(t *testing.T, backend string) app.Config {
	t.Helper()
	cfg := app.DefaultConfig(t.TempDir())
	cfg.SecretStore = backend
	cfg.Passphrase = "Correct-Horse-9-Battery"
	cfg.KDF = fastKDF
	return cfg
}

func TestNewWire_WeakPassphraseOnNewKeystore(t *testing.T) {
	cfg := testConfig(t, app.BackendFile)
	cfg.Passphrase = "weak"
	_, err := app.NewWire(cfg, app.Options{Log: quiet()})
	require.Error(t, err)

	cfg.Passphrase = ""
	_, err = app.NewWire(cfg, app.Options{Log: quiet()})
	require.ErrorIs(t, err, app.ErrPassphraseRequired)
}

func TestWire_StartMigratesAndSigns(t *testing.T) {
	ctx := context.Background()
	srv := httptest.NewServer(relay.NewServer(auth.Verifier{}, quiet()).Handler())
	defer srv.Close()

	for _, backend := range []string{app.BackendFile, app.BackendBadger} {
		t.Run(backend, func(t *testing.T) {
			cfg := testConfig(t, backend)
			cfg.BackendURL = srv.URL

			w, err := app.NewWire(cfg, app.Options{Log: quiet(), Registerer: prometheus.NewRegistry()})
			require.NoError(t, err)

			kp, err := crypto.GenerateKeyPair()
			require.NoError(t, err)
			mnemonic, err := crypto.NewMnemonic()
			require.NoError(t, err)
			require.NoError(t, store.WriteLegacy(ctx, w.Secrets, domain.LegacyCredentials{
				RegistrationComplete: true,
				Name:                 "Old",
				Mnemonic:             mnemonic,
				KeyPair:              &kp,
			}))

			acct, ok, err := w.App.Start(ctx)
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, "Old", acct.Name)
			require.NotNil(t, w.Keys.Load())

			ddo, err := w.App.Accounts.ActiveDDO(ctx)
			require.NoError(t, err)
			require.NoError(t, w.App.Relay.RegisterDDO(ctx, ddo))
			who, err := w.App.Relay.Ping(ctx)
			require.NoError(t, err)
			require.Equal(t, ddo.ID, who)
			require.NoError(t, w.Close())

			// Reopening finds the migrated account and the same key.
			w2, err := app.NewWire(cfg, app.Options{Log: quiet()})
			require.NoError(t, err)
			defer w2.Close()
			again, ok, err := w2.App.Start(ctx)
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, acct.ID, again.ID)
			require.True(t, w2.Keys.Load().Equal(kp))
		})
	}
}
