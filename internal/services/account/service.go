package account

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"sorawallet/internal/crypto"
	"sorawallet/internal/domain"
	"sorawallet/internal/protocol/did"
)

const (
	// minPassphraseLength defines the minimum number of characters required for a passphrase.
	minPassphraseLength = 12

	opSwitch = "account.switch"
)

var (
	// ErrWeakPassphrase is returned when the passphrase fails the strength policy.
	ErrWeakPassphrase = fmt.Errorf(
		"passphrase is too weak (must be at least %d characters and include upper, lower, "+
			"number, and symbol)",
		minPassphraseLength,
	)

	ErrNameRequired     = errors.New("account name is required")
	ErrUnknownAccount   = errors.New("unknown account")
	ErrNoActiveAccount  = errors.New("no active account")
	ErrDuplicateAccount = errors.New("an account with this recovery phrase already exists")
	ErrNoMnemonic       = errors.New("account has no stored recovery phrase")
)

// KeyHolder receives the keypair of the active account.
type KeyHolder interface {
	Install(keys domain.KeyPair)
	Clear()
}

// Config lists the collaborators of a Service.
type Config struct {
	Credentials domain.CredentialStore
	Accounts    domain.AccountRepository
	Keys        KeyHolder
	Resolver    domain.AddressResolver // defaults to SS58 with the Sora prefix
	Now         func() time.Time
	Log         *logrus.Logger
}

// Service manages account creation, recovery and switching.
type Service struct {
	creds    domain.CredentialStore
	accounts domain.AccountRepository
	keys     KeyHolder
	resolver domain.AddressResolver
	now      func() time.Time
	log      *logrus.Logger
}

// New returns an account service.
func New(cfg Config) *Service {
	s := &Service{
		creds:    cfg.Credentials,
		accounts: cfg.Accounts,
		keys:     cfg.Keys,
		resolver: cfg.Resolver,
		now:      cfg.Now,
		log:      cfg.Log,
	}
	if s.resolver == nil {
		s.resolver = crypto.SS58Resolver{Prefix: crypto.SoraSS58Prefix}
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.log == nil {
		s.log = logrus.New()
	}
	return s
}

// Create generates a new recovery phrase and stores the account derived from
// it. The phrase is returned once so the caller can show it to the user.
func (s *Service) Create(ctx context.Context, name string) (domain.Account, string, error) {
	mnemonic, err := crypto.NewMnemonic()
	if err != nil {
		return domain.Account{}, "", err
	}
	acct, err := s.add(ctx, name, mnemonic)
	if err != nil {
		return domain.Account{}, "", err
	}
	return acct, mnemonic, nil
}

// Recover stores the account derived from an existing recovery phrase.
func (s *Service) Recover(ctx context.Context, name, mnemonic string) (domain.Account, error) {
	normalized, err := crypto.ValidateMnemonic(mnemonic)
	if err != nil {
		return domain.Account{}, err
	}
	return s.add(ctx, name, normalized)
}

func (s *Service) add(ctx context.Context, name, mnemonic string) (domain.Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Account{}, ErrNameRequired
	}
	keys, err := crypto.KeyPairFromMnemonic(mnemonic)
	if err != nil {
		return domain.Account{}, err
	}
	addr, err := s.resolver.ResolveAddress(ctx, keys.PublicKey)
	if err != nil {
		return domain.Account{}, errors.Wrap(err, "resolve address")
	}

	existing, err := s.accounts.List(ctx)
	if err != nil {
		return domain.Account{}, err
	}
	for _, a := range existing {
		if a.Address == addr {
			return domain.Account{}, errors.Wrapf(ErrDuplicateAccount, "%s", a.ID)
		}
	}

	acct := domain.Account{
		ID:         domain.AccountID(uuid.NewString()),
		Name:       name,
		Address:    addr,
		CreatedUTC: s.now().UTC().Unix(),
	}
	if err := s.writeCredentials(ctx, acct, keys, mnemonic); err != nil {
		if rbErr := s.creds.DeleteAccount(ctx, acct.ID); rbErr != nil {
			s.log.WithField("account", acct.ID).WithError(rbErr).Error("rollback of partial account failed")
		}
		return domain.Account{}, err
	}
	if err := s.accounts.Insert(ctx, acct); err != nil {
		if rbErr := s.creds.DeleteAccount(ctx, acct.ID); rbErr != nil {
			s.log.WithField("account", acct.ID).WithError(rbErr).Error("rollback of unregistered account failed")
		}
		return domain.Account{}, err
	}

	// The first account becomes active.
	if _, ok, err := s.accounts.Active(ctx); err != nil {
		return domain.Account{}, err
	} else if !ok {
		if err := s.accounts.SetActive(ctx, acct.ID); err != nil {
			return domain.Account{}, err
		}
		s.keys.Install(keys)
	}

	s.log.WithFields(logrus.Fields{"account": acct.ID, "address": acct.Address}).Info("account stored")
	return acct, nil
}

func (s *Service) writeCredentials(ctx context.Context, acct domain.Account, keys domain.KeyPair, mnemonic string) error {
	if err := s.creds.SaveKeys(ctx, acct.ID, keys); err != nil {
		return err
	}
	if err := s.creds.SaveMnemonic(ctx, acct.ID, mnemonic); err != nil {
		return err
	}
	if err := s.creds.SaveAddress(ctx, acct.ID, acct.Address); err != nil {
		return err
	}
	return s.creds.SaveName(ctx, acct.ID, acct.Name)
}

// List returns every local account, oldest first.
func (s *Service) List(ctx context.Context) ([]domain.Account, error) {
	return s.accounts.List(ctx)
}

// Switch makes id the active account and installs its keypair.
func (s *Service) Switch(ctx context.Context, id domain.AccountID) error {
	if _, ok, err := s.accounts.Lookup(ctx, id); err != nil {
		return err
	} else if !ok {
		return errors.Wrapf(ErrUnknownAccount, "%s", id)
	}
	keys, err := s.loadKeys(ctx, id)
	if err != nil {
		return err
	}
	if err := s.accounts.SetActive(ctx, id); err != nil {
		return err
	}
	s.keys.Install(*keys)
	s.log.WithField("account", id).Info("switched account")
	return nil
}

// Delete removes every credential stored for id and then id itself. If
// either step fails the account stays listed, so Delete can be retried.
// Deleting the active account leaves no account active.
func (s *Service) Delete(ctx context.Context, id domain.AccountID) error {
	active, hasActive, err := s.accounts.Active(ctx)
	if err != nil {
		return err
	}
	if _, ok, err := s.accounts.Lookup(ctx, id); err != nil {
		return err
	} else if !ok {
		return errors.Wrapf(ErrUnknownAccount, "%s", id)
	}
	if hasActive && active.ID == id {
		s.keys.Clear()
	}
	if err := s.creds.DeleteAccount(ctx, id); err != nil {
		return err
	}
	if err := s.accounts.Delete(ctx, id); err != nil {
		return err
	}
	s.log.WithField("account", id).Info("deleted account")
	return nil
}

// Activate installs the keypair of the active account, if there is one. It
// runs once at startup.
func (s *Service) Activate(ctx context.Context) (domain.Account, bool, error) {
	acct, ok, err := s.accounts.Active(ctx)
	if err != nil {
		return domain.Account{}, false, err
	}
	if !ok {
		s.keys.Clear()
		return domain.Account{}, false, nil
	}
	keys, err := s.loadKeys(ctx, acct.ID)
	if err != nil {
		s.keys.Clear()
		return domain.Account{}, false, err
	}
	s.keys.Install(*keys)
	return acct, true, nil
}

// ActiveDDO builds the DID document of the active account. The document is
// stamped with the account's creation time, so repeated calls agree.
func (s *Service) ActiveDDO(ctx context.Context) (domain.DDO, error) {
	acct, ok, err := s.accounts.Active(ctx)
	if err != nil {
		return domain.DDO{}, err
	}
	if !ok {
		return domain.DDO{}, ErrNoActiveAccount
	}
	keys, err := s.loadKeys(ctx, acct.ID)
	if err != nil {
		return domain.DDO{}, err
	}
	owner, err := did.DeriveDID(keys.PublicKey)
	if err != nil {
		return domain.DDO{}, err
	}
	return did.BuildDDO(owner, keys.PublicKey, time.Unix(acct.CreatedUTC, 0))
}

// ExportMnemonic returns the recovery phrase of id.
func (s *Service) ExportMnemonic(ctx context.Context, id domain.AccountID) (string, error) {
	m, ok, err := s.creds.RetrieveMnemonic(ctx, id)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", errors.Wrapf(ErrNoMnemonic, "%s", id)
	}
	return m, nil
}

// loadKeys returns the keypair of a registered account. A registered account
// without keys is corrupt.
func (s *Service) loadKeys(ctx context.Context, id domain.AccountID) (*domain.KeyPair, error) {
	keys, err := s.creds.RetrieveKeys(ctx, id)
	if err != nil {
		return nil, err
	}
	if keys == nil {
		return nil, domain.E(domain.KindCorruptCredential, opSwitch, errors.Errorf("account %s has no keypair", id))
	}
	return keys, nil
}

// CheckPassphrase enforces a basic strength policy on a new keystore
// passphrase.
func CheckPassphrase(passphrase string) error {
	if !isSecurePassphrase(passphrase) {
		return ErrWeakPassphrase
	}
	return nil
}

// isSecurePassphrase enforces a basic strength policy.
func isSecurePassphrase(passphrase string) bool {
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	if len(passphrase) < minPassphraseLength {
		return false
	}
	for _, r := range passphrase {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r), unicode.IsSymbol(r):
			hasSymbol = true
		}
	}
	return hasUpper && hasLower && hasDigit && hasSymbol
}

// Compile-time assertion that Service implements domain.AccountService.
var _ domain.AccountService = (*Service)(nil)
