package app

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"sorawallet/internal/domain"
)

// App is the service layer the commands talk to.
type App struct {
	Accounts  domain.AccountService
	Migration domain.MigrationService
	Relay     domain.RelayClient

	log     *logrus.Logger
	startMu sync.Mutex
}

func New(accounts domain.AccountService, migration domain.MigrationService, relay domain.RelayClient, log *logrus.Logger) *App {
	if log == nil {
		log = logrus.New()
	}
	return &App{
		Accounts:  accounts,
		Migration: migration,
		Relay:     relay,
		log:       log,
	}
}

// Start runs the legacy migration and installs the active account's key. It
// is safe to call more than once.
func (a *App) Start(ctx context.Context) (domain.Account, bool, error) {
	a.startMu.Lock()
	defer a.startMu.Unlock()

	state, err := a.Migration.Migrate(ctx)
	if err != nil {
		return domain.Account{}, false, err
	}
	a.log.WithField("migration", state).Debug("migration checked")
	return a.Accounts.Activate(ctx)
}
