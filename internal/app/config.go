package app

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"sorawallet/internal/auth"
	"sorawallet/internal/store"
)

// ConfigFile is the name of the configuration file inside the home directory.
const ConfigFile = "config.yaml"

// Secret store backends.
const (
	BackendFile   = "file"
	BackendBadger = "badger"
	BackendMemory = "memory"
)

// Environment variables read by LoadConfig.
const (
	EnvHome        = "SORAWALLET_HOME"
	EnvBackendURL  = "SORAWALLET_BACKEND_URL"
	EnvSecretStore = "SORAWALLET_SECRET_STORE"
	EnvPassphrase  = "SORAWALLET_PASSPHRASE"
	EnvUserAgent   = "SORAWALLET_USER_AGENT"
	EnvLogLevel    = "SORAWALLET_LOG_LEVEL"
)

// Config holds runtime wiring options for building the app.
type Config struct {
	Home         string          `yaml:"-"`              // config directory, e.g. $HOME/.sorawallet
	BackendURL   string          `yaml:"backend_url"`    // wallet backend, e.g. http://127.0.0.1:8080
	SecretStore  string          `yaml:"secret_store"`   // file, badger or memory
	Passphrase   string          `yaml:"-"`              // never persisted
	UserAgent    string          `yaml:"user_agent"`     // sent on signed requests
	MaxClockSkew time.Duration   `yaml:"max_clock_skew"` // verifier side only
	LogLevel     string          `yaml:"log_level"`
	KDF          store.KDFParams `yaml:"kdf,omitempty"`
	HTTP         *http.Client    `yaml:"-"` // optional; its transport is wrapped for signing
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig(home string) Config {
	return Config{
		Home:         home,
		BackendURL:   "http://127.0.0.1:8080",
		SecretStore:  BackendFile,
		UserAgent:    auth.DefaultUserAgent,
		MaxClockSkew: auth.DefaultMaxSkew,
		LogLevel:     "info",
	}
}

// DefaultHome returns $SORAWALLET_HOME or ~/.sorawallet.
func DefaultHome() (string, error) {
	if h := os.Getenv(EnvHome); h != "" {
		return h, nil
	}
	dir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ".sorawallet"), nil
}

// LoadConfig reads <home>/config.yaml over the defaults, then applies
// SORAWALLET_* environment overrides. A missing file is not an error.
func LoadConfig(home string) (Config, error) {
	cfg := DefaultConfig(home)
	b, err := os.ReadFile(filepath.Join(home, ConfigFile))
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, errors.Wrapf(err, "parse %s", ConfigFile)
		}
	case !os.IsNotExist(err):
		return Config{}, errors.Wrapf(err, "read %s", ConfigFile)
	}
	cfg.Home = home
	cfg.applyEnv(os.LookupEnv)
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	for env, dst := range map[string]*string{
		EnvBackendURL:  &c.BackendURL,
		EnvSecretStore: &c.SecretStore,
		EnvPassphrase:  &c.Passphrase,
		EnvUserAgent:   &c.UserAgent,
		EnvLogLevel:    &c.LogLevel,
	} {
		if v, ok := lookup(env); ok {
			*dst = v
		}
	}
}

// Validate checks option values.
func (c Config) Validate() error {
	switch c.SecretStore {
	case BackendFile, BackendBadger, BackendMemory:
	default:
		return errors.Errorf("unknown secret store %q", c.SecretStore)
	}
	if c.MaxClockSkew < 0 {
		return errors.New("max_clock_skew must not be negative")
	}
	if c.BackendURL != "" && !strings.HasPrefix(c.BackendURL, "http://") && !strings.HasPrefix(c.BackendURL, "https://") {
		return errors.Errorf("backend_url %q must be http or https", c.BackendURL)
	}
	return nil
}

// Save writes the persistent options to <home>/config.yaml.
func (c Config) Save() error {
	if err := os.MkdirAll(c.Home, 0o700); err != nil {
		return err
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.Home, ConfigFile), b, 0o600)
}
