package commands

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"sorawallet/internal/app"
)

// Annotations on subcommands.
const (
	annotationNoWallet = "sorawallet/no-wallet" // pure commands, nothing is opened
	annotationNoStart  = "sorawallet/no-start"  // wallet opened, startup deferred to the command
)

const requestTimeout = 30 * time.Second

type rootState struct {
	home       string
	passphrase string
	backendURL string
	backend    string
	logLevel   string

	wire *app.Wire
}

// Execute runs the CLI.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	st := &rootState{}
	root := &cobra.Command{
		Use:           "sorawallet",
		Short:         "Wallet identity, credential and request-signing CLI",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[annotationNoWallet] != "" {
				return nil
			}
			return st.open(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if st.wire == nil {
				return nil
			}
			err := st.wire.Close()
			st.wire = nil
			return err
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&st.home, "home", "", "config dir (default ~/.sorawallet)")
	f.StringVarP(&st.passphrase, "passphrase", "p", "", "keystore passphrase (or "+app.EnvPassphrase+")")
	f.StringVar(&st.backendURL, "backend", "", "wallet backend base URL")
	f.StringVar(&st.backend, "secret-store", "", "secret store backend: file, badger or memory")
	f.StringVar(&st.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		createCmd(st),
		recoverCmd(st),
		accountsCmd(st),
		switchCmd(st),
		deleteCmd(st),
		exportCmd(st),
		didCmd(st),
		ddoCmd(st),
		discloseCmd(),
		resaltifyCmd(),
		migrateCmd(st),
		callCmd(st),
	)
	return root
}

// open loads configuration, applies flags over it and builds the app.
func (st *rootState) open(cmd *cobra.Command) error {
	home := st.home
	if home == "" {
		h, err := app.DefaultHome()
		if err != nil {
			return err
		}
		home = h
	}
	cfg, err := app.LoadConfig(home)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("passphrase") {
		cfg.Passphrase = st.passphrase
	}
	if flags.Changed("backend") {
		cfg.BackendURL = st.backendURL
	}
	if flags.Changed("secret-store") {
		cfg.SecretStore = st.backend
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = st.logLevel
	}

	log, err := app.NewLogger(cfg.LogLevel, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	w, err := app.NewWire(cfg, app.Options{Log: log})
	if err != nil {
		return err
	}
	st.wire = w

	if cmd.Annotations[annotationNoStart] != "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
	defer cancel()
	_, _, err = w.App.Start(ctx)
	return err
}

func (st *rootState) ctx(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, requestTimeout)
}

func readAllStdin() ([]byte, error) {
	return readAll(os.Stdin)
}
