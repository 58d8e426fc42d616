package store

import (
	"context"
	"path/filepath"
	"sort"
	"sync"

	"github.com/pkg/errors"

	"sorawallet/internal/domain"
)

const accountsFile = "accounts.json"

var (
	ErrAccountExists   = errors.New("account already exists")
	ErrAccountNotFound = errors.New("account not found")
)

type accountsDoc struct {
	Active   domain.AccountID                    `json:"active,omitempty"`
	Accounts map[domain.AccountID]domain.Account `json:"accounts"`
}

// AccountFileStore persists local account profiles and the active account
// pointer to disk.
type AccountFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewAccountFileStore returns an AccountFileStore rooted at dir.
func NewAccountFileStore(dir string) *AccountFileStore {
	return &AccountFileStore{dir: dir}
}

// Lookup returns the profile of id.
func (s *AccountFileStore) Lookup(ctx context.Context, id domain.AccountID) (domain.Account, bool, error) {
	doc, err := s.read(ctx)
	if err != nil {
		return domain.Account{}, false, err
	}
	a, ok := doc.Accounts[id]
	return a, ok, nil
}

// Insert adds a new account. Inserting an existing id fails.
func (s *AccountFileStore) Insert(ctx context.Context, account domain.Account) error {
	if account.ID == "" {
		return ErrNoAccount
	}
	return s.update(ctx, func(doc *accountsDoc) error {
		if _, ok := doc.Accounts[account.ID]; ok {
			return errors.Wrapf(ErrAccountExists, "%s", account.ID)
		}
		doc.Accounts[account.ID] = account
		return nil
	})
}

// List returns all accounts, oldest first.
func (s *AccountFileStore) List(ctx context.Context) ([]domain.Account, error) {
	doc, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Account, 0, len(doc.Accounts))
	for _, a := range doc.Accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedUTC != out[j].CreatedUTC {
			return out[i].CreatedUTC < out[j].CreatedUTC
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// SetActive marks id as the active account.
func (s *AccountFileStore) SetActive(ctx context.Context, id domain.AccountID) error {
	return s.update(ctx, func(doc *accountsDoc) error {
		if _, ok := doc.Accounts[id]; !ok {
			return errors.Wrapf(ErrAccountNotFound, "%s", id)
		}
		doc.Active = id
		return nil
	})
}

// Active returns the active account, if any.
func (s *AccountFileStore) Active(ctx context.Context) (domain.Account, bool, error) {
	doc, err := s.read(ctx)
	if err != nil {
		return domain.Account{}, false, err
	}
	if doc.Active == "" {
		return domain.Account{}, false, nil
	}
	a, ok := doc.Accounts[doc.Active]
	return a, ok, nil
}

// Delete removes id and clears the active pointer if it referenced id.
func (s *AccountFileStore) Delete(ctx context.Context, id domain.AccountID) error {
	return s.update(ctx, func(doc *accountsDoc) error {
		if _, ok := doc.Accounts[id]; !ok {
			return errors.Wrapf(ErrAccountNotFound, "%s", id)
		}
		delete(doc.Accounts, id)
		if doc.Active == id {
			doc.Active = ""
		}
		return nil
	})
}

func (s *AccountFileStore) read(ctx context.Context) (accountsDoc, error) {
	if err := ctx.Err(); err != nil {
		return accountsDoc{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *AccountFileStore) update(ctx context.Context, fn func(*accountsDoc) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(&doc); err != nil {
		return err
	}
	return writeJSON(filepath.Join(s.dir, accountsFile), doc, 0o600)
}

func (s *AccountFileStore) load() (accountsDoc, error) {
	doc := accountsDoc{Accounts: map[domain.AccountID]domain.Account{}}
	if err := readJSON(filepath.Join(s.dir, accountsFile), &doc); err != nil {
		return accountsDoc{}, errors.Wrap(err, "read accounts")
	}
	if doc.Accounts == nil {
		doc.Accounts = map[domain.AccountID]domain.Account{}
	}
	return doc, nil
}

// Compile-time assertion that AccountFileStore implements domain.AccountRepository.
var _ domain.AccountRepository = (*AccountFileStore)(nil)
