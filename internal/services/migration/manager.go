package migration

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"sorawallet/internal/crypto"
	"sorawallet/internal/domain"
)

const (
	opMigrate = "migration.migrate"

	// DefaultAccountName names a migrated account whose legacy name is empty.
	DefaultAccountName = "Main account"
)

var (
	ErrMissingKeys     = errors.New("legacy keypair missing")
	ErrMissingMnemonic = errors.New("legacy mnemonic missing")
	ErrAddressConflict = errors.New("legacy address does not match resolved address")
	ErrReadBack        = errors.New("written credential does not read back")
)

// KeyHolder receives the keypair of the migrated account.
type KeyHolder interface {
	Install(keys domain.KeyPair)
}

// Config lists the collaborators of a Manager.
type Config struct {
	Legacy      domain.LegacyReader
	Credentials domain.CredentialStore
	Accounts    domain.AccountRepository
	Resolver    domain.AddressResolver // defaults to SS58 with the Sora prefix
	Keys        KeyHolder              // optional
	NewID       func() domain.AccountID
	Now         func() time.Time
	Log         *logrus.Logger
}

// Manager performs the legacy migration. Callers should still serialize
// startup; the manager's own lock and the existing-account check are a
// second line of defense.
type Manager struct {
	mu  sync.Mutex
	cfg Config
}

// New returns a Manager.
func New(cfg Config) *Manager {
	if cfg.Resolver == nil {
		cfg.Resolver = crypto.SS58Resolver{Prefix: crypto.SoraSS58Prefix}
	}
	if cfg.NewID == nil {
		cfg.NewID = func() domain.AccountID { return domain.AccountID(uuid.NewString()) }
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Log == nil {
		cfg.Log = logrus.New()
	}
	return &Manager{cfg: cfg}
}

// Status reports the migration state without writing anything.
func (m *Manager) Status(ctx context.Context) (domain.MigrationState, error) {
	accounts, err := m.cfg.Accounts.List(ctx)
	if err != nil {
		return domain.MigrationNotNeeded, err
	}
	if len(accounts) > 0 {
		return domain.MigrationDone, nil
	}
	legacy, err := m.cfg.Legacy.ReadLegacy(ctx)
	if err != nil {
		return domain.MigrationNotNeeded, err
	}
	if !legacy.RegistrationComplete {
		return domain.MigrationNotNeeded, nil
	}
	return domain.MigrationNeeded, nil
}

// Migrate moves the legacy account into the namespaced layout. It returns
// MigrationDone on success and when nothing needed to move. When any
// namespaced account exists it performs no writes at all.
func (m *Manager) Migrate(ctx context.Context) (domain.MigrationState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	accounts, err := m.cfg.Accounts.List(ctx)
	if err != nil {
		return domain.MigrationNotNeeded, err
	}
	if len(accounts) > 0 {
		return domain.MigrationDone, nil
	}

	legacy, err := m.cfg.Legacy.ReadLegacy(ctx)
	if err != nil {
		return domain.MigrationNeeded, domain.E(domain.KindMigrationFailure, opMigrate, err)
	}
	if !legacy.RegistrationComplete {
		return domain.MigrationDone, nil
	}

	acct, err := m.plan(ctx, legacy)
	if err != nil {
		return domain.MigrationNeeded, domain.E(domain.KindMigrationFailure, opMigrate, err)
	}
	log := m.cfg.Log.WithField("account", acct.ID)

	if err := m.write(ctx, acct, legacy); err != nil {
		m.rollback(ctx, acct.ID, log)
		return domain.MigrationNeeded, domain.E(domain.KindMigrationFailure, opMigrate, err)
	}
	if err := m.verify(ctx, acct, legacy); err != nil {
		m.rollback(ctx, acct.ID, log)
		return domain.MigrationNeeded, domain.E(domain.KindMigrationFailure, opMigrate, err)
	}
	if err := m.cfg.Accounts.Insert(ctx, acct); err != nil {
		m.rollback(ctx, acct.ID, log)
		return domain.MigrationNeeded, domain.E(domain.KindMigrationFailure, opMigrate, err)
	}
	if err := m.cfg.Accounts.SetActive(ctx, acct.ID); err != nil {
		if delErr := m.cfg.Accounts.Delete(ctx, acct.ID); delErr != nil {
			log.WithError(delErr).Error("could not unregister partially migrated account")
		}
		m.rollback(ctx, acct.ID, log)
		return domain.MigrationNeeded, domain.E(domain.KindMigrationFailure, opMigrate, err)
	}

	if m.cfg.Keys != nil {
		m.cfg.Keys.Install(*legacy.KeyPair)
	}
	log.WithField("address", acct.Address).Info("legacy account migrated")
	return domain.MigrationDone, nil
}

// plan validates the legacy material and builds the account profile. It
// performs no writes.
func (m *Manager) plan(ctx context.Context, legacy domain.LegacyCredentials) (domain.Account, error) {
	if legacy.KeyPair == nil {
		return domain.Account{}, ErrMissingKeys
	}
	if legacy.Mnemonic == "" {
		return domain.Account{}, ErrMissingMnemonic
	}

	addr, err := m.cfg.Resolver.ResolveAddress(ctx, legacy.KeyPair.PublicKey)
	switch {
	case err != nil && legacy.Address == "":
		return domain.Account{}, errors.Wrap(err, "resolve address")
	case err != nil:
		m.cfg.Log.WithError(err).Warn("address lookup failed, using stored legacy address")
		addr = legacy.Address
	case legacy.Address != "" && legacy.Address != addr:
		return domain.Account{}, errors.Wrapf(ErrAddressConflict, "stored %s, resolved %s", legacy.Address, addr)
	}

	name := legacy.Name
	if name == "" {
		name = DefaultAccountName
	}
	return domain.Account{
		ID:         m.cfg.NewID(),
		Name:       name,
		Address:    addr,
		CreatedUTC: m.cfg.Now().UTC().Unix(),
	}, nil
}

func (m *Manager) write(ctx context.Context, acct domain.Account, legacy domain.LegacyCredentials) error {
	c := m.cfg.Credentials
	if err := c.SaveKeys(ctx, acct.ID, *legacy.KeyPair); err != nil {
		return err
	}
	if err := c.SaveMnemonic(ctx, acct.ID, legacy.Mnemonic); err != nil {
		return err
	}
	if err := c.SaveAddress(ctx, acct.ID, acct.Address); err != nil {
		return err
	}
	if err := c.SaveName(ctx, acct.ID, acct.Name); err != nil {
		return err
	}
	if legacy.MigrationStatus != "" {
		return c.SaveMigrationStatus(ctx, acct.ID, legacy.MigrationStatus)
	}
	return nil
}

// verify reads back every written field.
func (m *Manager) verify(ctx context.Context, acct domain.Account, legacy domain.LegacyCredentials) error {
	c := m.cfg.Credentials

	keys, err := c.RetrieveKeys(ctx, acct.ID)
	if err != nil {
		return err
	}
	if keys == nil || !keys.Equal(*legacy.KeyPair) {
		return errors.Wrap(ErrReadBack, "keypair")
	}
	checks := []struct {
		field string
		want  string
		read  func(context.Context, domain.AccountID) (string, bool, error)
	}{
		{"mnemonic", legacy.Mnemonic, c.RetrieveMnemonic},
		{"address", acct.Address.String(), func(ctx context.Context, id domain.AccountID) (string, bool, error) {
			a, ok, err := c.GetAddress(ctx, id)
			return a.String(), ok, err
		}},
		{"name", acct.Name, c.RetrieveName},
		{"migration status", legacy.MigrationStatus, c.RetrieveMigrationStatus},
	}
	for _, chk := range checks {
		got, _, err := chk.read(ctx, acct.ID)
		if err != nil {
			return err
		}
		if got != chk.want {
			return errors.Wrap(ErrReadBack, chk.field)
		}
	}
	return nil
}

func (m *Manager) rollback(ctx context.Context, id domain.AccountID, log *logrus.Entry) {
	// The caller's context may already be cancelled; cleanup must still run.
	if err := m.cfg.Credentials.DeleteAccount(context.WithoutCancel(ctx), id); err != nil {
		log.WithError(err).Error("rollback of migrated credentials failed")
	}
}

// Compile-time assertion that Manager implements domain.MigrationService.
var _ domain.MigrationService = (*Manager)(nil)
