package app

import (
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"sorawallet/internal/auth"
	"sorawallet/internal/crypto"
	"sorawallet/internal/domain"
	"sorawallet/internal/relay"
	accountsvc "sorawallet/internal/services/account"
	migrationsvc "sorawallet/internal/services/migration"
	"sorawallet/internal/store"
)

const badgerDir = "secrets.db"

// ErrPassphraseRequired is returned when an encrypted backend has no passphrase.
var ErrPassphraseRequired = errors.New("passphrase required (--passphrase or " + EnvPassphrase + ")")

// Wire bundles all stores, services, and clients for the CLI.
type Wire struct {
	Config      Config
	Log         *logrus.Logger
	Secrets     domain.SecretStore
	Credentials *store.CredentialStore
	Accounts    *store.AccountFileStore
	Keys        *auth.KeyCell
	Metrics     *auth.Metrics
	HTTP        *http.Client
	Relay       *relay.HTTP
	App         *App

	closers []io.Closer
}

// Options tunes NewWire beyond Config.
type Options struct {
	Log        *logrus.Logger
	Registerer prometheus.Registerer // nil leaves metrics unregistered
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config, opts Options) (*Wire, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := opts.Log
	if log == nil {
		log = logrus.New()
	}
	if err := os.MkdirAll(cfg.Home, 0o700); err != nil {
		return nil, errors.Wrap(err, "create home")
	}

	w := &Wire{Config: cfg, Log: log}
	secrets, err := w.openSecrets()
	if err != nil {
		return nil, err
	}
	w.Secrets = secrets
	w.Credentials = store.NewCredentialStore(secrets)
	w.Accounts = store.NewAccountFileStore(cfg.Home)

	// Signing transport on top of the caller's client, if any.
	w.Keys = auth.NewKeyCell()
	w.Metrics = auth.NewMetrics(opts.Registerer)
	base := http.DefaultTransport
	client := &http.Client{}
	if cfg.HTTP != nil {
		*client = *cfg.HTTP
		if cfg.HTTP.Transport != nil {
			base = cfg.HTTP.Transport
		}
	}
	client.Transport = &auth.Transport{
		Base:      base,
		Keys:      w.Keys,
		Signer:    crypto.SHA3Ed25519Signer{},
		UserAgent: cfg.UserAgent,
		Metrics:   w.Metrics,
		Log:       log,
	}
	w.HTTP = client
	w.Relay = relay.NewHTTP(cfg.BackendURL, client)

	resolver := crypto.SS58Resolver{Prefix: crypto.SoraSS58Prefix}
	accounts := accountsvc.New(accountsvc.Config{
		Credentials: w.Credentials,
		Accounts:    w.Accounts,
		Keys:        w.Keys,
		Resolver:    resolver,
		Log:         log,
	})
	migrations := migrationsvc.New(migrationsvc.Config{
		Legacy:      store.NewLegacyStore(secrets),
		Credentials: w.Credentials,
		Accounts:    w.Accounts,
		Resolver:    resolver,
		Keys:        w.Keys,
		Log:         log,
	})
	w.App = New(accounts, migrations, w.Relay, log)
	return w, nil
}

func (w *Wire) openSecrets() (domain.SecretStore, error) {
	cfg := w.Config
	if cfg.SecretStore == BackendMemory {
		w.Log.Warn("using in-memory secret store; nothing will be persisted")
		return store.NewMemorySecretStore(), nil
	}
	if cfg.Passphrase == "" {
		return nil, ErrPassphraseRequired
	}
	if !KeystoreExists(cfg) {
		if err := accountsvc.CheckPassphrase(cfg.Passphrase); err != nil {
			return nil, err
		}
	}

	switch cfg.SecretStore {
	case BackendBadger:
		s, err := store.OpenBadgerSecretStore(store.BadgerSecretStoreConfig{
			Dir:        filepath.Join(cfg.Home, badgerDir),
			Passphrase: cfg.Passphrase,
			KDF:        cfg.KDF,
			Logger:     w.Log,
		})
		if err != nil {
			return nil, err
		}
		w.closers = append(w.closers, s)
		return s, nil
	default:
		return store.OpenFileSecretStore(store.FileSecretStoreConfig{
			Dir:        cfg.Home,
			Passphrase: cfg.Passphrase,
			KDF:        cfg.KDF,
			Logger:     w.Log,
		})
	}
}

// KeystoreExists reports whether cfg's backend already holds a keystore.
func KeystoreExists(cfg Config) bool {
	switch cfg.SecretStore {
	case BackendBadger:
		_, err := os.Stat(filepath.Join(cfg.Home, badgerDir))
		return err == nil
	case BackendMemory:
		return false
	default:
		return store.FileSecretStoreExists(cfg.Home)
	}
}

// Close releases the secret store.
func (w *Wire) Close() error {
	var first error
	for _, c := range w.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	w.closers = nil
	return first
}
