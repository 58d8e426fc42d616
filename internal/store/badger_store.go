package store

import (
	"context"
	"encoding/json"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"sorawallet/internal/domain"
)

var badgerHeaderKey = []byte("\x00keystore/header")

// BadgerSecretStoreConfig configures a BadgerSecretStore.
type BadgerSecretStoreConfig struct {
	Dir        string // ignored when InMemory is set
	InMemory   bool
	Passphrase string
	KDF        KDFParams
	Logger     *logrus.Logger
}

// BadgerSecretStore keeps sealed values in a badger database.
type BadgerSecretStore struct {
	db     *badger.DB
	sealer *sealer
	log    *logrus.Logger
}

// OpenBadgerSecretStore opens or creates the database and its keystore
// header. A wrong passphrase yields ErrWrongPassphrase.
func OpenBadgerSecretStore(cfg BadgerSecretStoreConfig) (*BadgerSecretStore, error) {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	opts := badger.DefaultOptions(cfg.Dir)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = nil
	opts.SyncWrites = true

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "open badger")
	}

	sl, err := loadBadgerKeystore(db, cfg)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &BadgerSecretStore{db: db, sealer: sl, log: cfg.Logger}, nil
}

func loadBadgerKeystore(db *badger.DB, cfg BadgerSecretStoreConfig) (*sealer, error) {
	var raw []byte
	err := db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerHeaderKey)
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
		sl, h, err := newKeystore(cfg.Passphrase, cfg.KDF)
		if err != nil {
			return nil, err
		}
		b, err := json.Marshal(h)
		if err != nil {
			return nil, err
		}
		if err := db.Update(func(txn *badger.Txn) error { return txn.Set(badgerHeaderKey, b) }); err != nil {
			return nil, errors.Wrap(err, "write keystore header")
		}
		cfg.Logger.WithFields(logrus.Fields{"dir": cfg.Dir, "in_memory": cfg.InMemory}).Info("created keystore")
		return sl, nil
	case err != nil:
		return nil, errors.Wrap(err, "read keystore header")
	}

	var h keystoreHeader
	if err := json.Unmarshal(raw, &h); err != nil {
		return nil, errors.Wrap(ErrWrongPassphrase, "undecodable header")
	}
	return openKeystore(cfg.Passphrase, h)
}

// Put seals value under key.
func (s *BadgerSecretStore) Put(ctx context.Context, key, value string) error {
	if err := checkKey(ctx, key); err != nil {
		return err
	}
	blob, err := s.sealer.seal(key, []byte(value))
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), blob)
	})
}

// Get opens the value under key. Absent keys return found == false.
func (s *BadgerSecretStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := checkKey(ctx, key); err != nil {
		return "", false, err
	}
	var blob []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		blob, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrap(err, "badger get")
	}
	pt, err := s.sealer.open(key, blob)
	if err != nil {
		s.log.WithFields(logrus.Fields{"key": key}).Warn("secret failed to open")
		return "", false, err
	}
	return string(pt), true, nil
}

// Delete removes key.
func (s *BadgerSecretStore) Delete(ctx context.Context, key string) error {
	if err := checkKey(ctx, key); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// Close releases the database.
func (s *BadgerSecretStore) Close() error { return s.db.Close() }

var _ domain.SecretStore = (*BadgerSecretStore)(nil)
