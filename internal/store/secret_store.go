package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"sorawallet/internal/domain"
)

const secretsFilename = "secrets.json.enc"

// ErrReservedKey is returned for keys in the store's internal namespace.
var ErrReservedKey = errors.New("reserved secret key")

type secretsFile struct {
	Header  keystoreHeader    `json:"header"`
	Entries map[string][]byte `json:"entries"`
}

// FileSecretStoreConfig configures a FileSecretStore.
type FileSecretStoreConfig struct {
	Dir        string
	Passphrase string
	KDF        KDFParams // zero value selects DefaultKDFParams
	Logger     *logrus.Logger
}

// FileSecretStore keeps sealed values in a single JSON file.
type FileSecretStore struct {
	path   string
	header keystoreHeader
	sealer *sealer
	log    *logrus.Logger
	mu     sync.Mutex
}

// OpenFileSecretStore opens or creates the keystore under cfg.Dir. A wrong
// passphrase for an existing keystore yields ErrWrongPassphrase.
func OpenFileSecretStore(cfg FileSecretStoreConfig) (*FileSecretStore, error) {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if err := os.MkdirAll(cfg.Dir, 0o700); err != nil {
		return nil, errors.Wrap(err, "create keystore dir")
	}
	s := &FileSecretStore{path: filepath.Join(cfg.Dir, secretsFilename), log: cfg.Logger}

	var f secretsFile
	if err := readJSON(s.path, &f); err != nil {
		return nil, errors.Wrap(err, "read keystore")
	}
	if f.Header.V == 0 {
		sl, h, err := newKeystore(cfg.Passphrase, cfg.KDF)
		if err != nil {
			return nil, err
		}
		s.sealer, s.header = sl, h
		if err := writeJSON(s.path, secretsFile{Header: h, Entries: map[string][]byte{}}, 0o600); err != nil {
			return nil, errors.Wrap(err, "write keystore")
		}
		s.log.WithFields(logrus.Fields{"path": s.path}).Info("created keystore")
		return s, nil
	}
	sl, err := openKeystore(cfg.Passphrase, f.Header)
	if err != nil {
		return nil, err
	}
	s.sealer, s.header = sl, f.Header
	return s, nil
}

// Put seals value under key.
func (s *FileSecretStore) Put(ctx context.Context, key, value string) error {
	if err := checkKey(ctx, key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.load()
	if err != nil {
		return err
	}
	blob, err := s.sealer.seal(key, []byte(value))
	if err != nil {
		return err
	}
	f.Entries[key] = blob
	return writeJSON(s.path, f, 0o600)
}

// Get opens the value under key. Absent keys return found == false.
func (s *FileSecretStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := checkKey(ctx, key); err != nil {
		return "", false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.load()
	if err != nil {
		return "", false, err
	}
	blob, ok := f.Entries[key]
	if !ok {
		return "", false, nil
	}
	pt, err := s.sealer.open(key, blob)
	if err != nil {
		s.log.WithFields(logrus.Fields{"key": key}).Warn("secret failed to open")
		return "", false, err
	}
	return string(pt), true, nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *FileSecretStore) Delete(ctx context.Context, key string) error {
	if err := checkKey(ctx, key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := f.Entries[key]; !ok {
		return nil
	}
	delete(f.Entries, key)
	return writeJSON(s.path, f, 0o600)
}

func (s *FileSecretStore) load() (secretsFile, error) {
	f := secretsFile{Entries: map[string][]byte{}}
	if err := readJSON(s.path, &f); err != nil {
		return secretsFile{}, errors.Wrap(err, "read keystore")
	}
	if f.Entries == nil {
		f.Entries = map[string][]byte{}
	}
	f.Header = s.header
	return f, nil
}

func checkKey(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if key == "" || strings.HasPrefix(key, "\x00") {
		return errors.Wrapf(ErrReservedKey, "%q", key)
	}
	return nil
}

// MemorySecretStore is an unencrypted in-process SecretStore for tests and
// dry runs.
type MemorySecretStore struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemorySecretStore returns an empty MemorySecretStore.
func NewMemorySecretStore() *MemorySecretStore {
	return &MemorySecretStore{data: make(map[string]string)}
}

func (m *MemorySecretStore) Put(ctx context.Context, key, value string) error {
	if err := checkKey(ctx, key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemorySecretStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := checkKey(ctx, key); err != nil {
		return "", false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemorySecretStore) Delete(ctx context.Context, key string) error {
	if err := checkKey(ctx, key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Keys returns the stored keys in no particular order.
func (m *MemorySecretStore) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.data))
	for k := range m.data {
		out = append(out, k)
	}
	return out
}

// Compile-time assertions that the secret stores implement domain.SecretStore.
var (
	_ domain.SecretStore = (*FileSecretStore)(nil)
	_ domain.SecretStore = (*MemorySecretStore)(nil)
)

// FileSecretStoreExists reports whether dir already holds a keystore.
func FileSecretStoreExists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, secretsFilename))
	return err == nil
}
