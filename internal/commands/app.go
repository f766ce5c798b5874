package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"budget/internal/backend"
	"budget/internal/cli"
	"budget/internal/config"
	"budget/internal/core"
	applog "budget/internal/log"
	"budget/internal/report"
	"budget/internal/session"
)

const (
	envUsername = "BUDGET_USERNAME"
	envPassword = "BUDGET_PASSWORD"
)

// app carries the per-process state shared by the subcommands. The backend
// is opened on first use so that help and version never touch storage.
type app struct {
	envFile  string
	username string
	password string

	cfg    *config.Config
	logger *applog.Logger
	res    *backend.BackendResult
}

func (a *app) backend(cmd *cobra.Command) (*backend.BackendResult, error) {
	if a.res != nil {
		return a.res, nil
	}
	if err := cli.LoadEnvFile(a.envFile); err != nil {
		return nil, err
	}
	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		return nil, err
	}
	a.cfg = cfg
	a.logger = cli.SetupLogger(cfg, cmd.ErrOrStderr())

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(a.logger).CreateBackend(cmd.Context(), bcfg)
	if err != nil {
		return nil, err
	}
	a.res = res
	return res, nil
}

// credentials returns the flag values, falling back to the environment.
func (a *app) credentials() (string, string) {
	user, pass := a.username, a.password
	if strings.TrimSpace(user) == "" {
		user = os.Getenv(envUsername)
	}
	if pass == "" {
		pass = os.Getenv(envPassword)
	}
	return user, pass
}

func (a *app) login(cmd *cobra.Command) (*backend.BackendResult, core.OwnerID, error) {
	res, err := a.backend(cmd)
	if err != nil {
		return nil, 0, err
	}
	user, pass := a.credentials()
	owner, err := res.Accounts.Login(cmd.Context(), user, pass)
	if err != nil {
		return nil, 0, err
	}
	return res, owner, nil
}

func (a *app) session(cmd *cobra.Command, opts ...session.Option) (*session.Session, error) {
	res, owner, err := a.login(cmd)
	if err != nil {
		return nil, err
	}
	f := report.NewFormatter(a.cfg.Currency)
	return session.New(res.Ledger, owner, cmd.OutOrStdout(), f, opts...), nil
}

// dispatch runs one session command for the logged-in owner.
func (a *app) dispatch(cmd *cobra.Command, c session.Command, args []string, opts ...session.Option) error {
	s, err := a.session(cmd, opts...)
	if err != nil {
		return err
	}
	return s.Dispatch(cmd.Context(), c, args)
}

func (a *app) close() error {
	if a.res == nil || a.res.Cleanup == nil {
		return nil
	}
	if err := a.res.Cleanup(); err != nil {
		return fmt.Errorf("close backend: %w", err)
	}
	return nil
}
