package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/elmledger/internal/activity"
	"github.com/cleared-dev/elmledger/internal/config"
	"github.com/cleared-dev/elmledger/internal/fetch"
	"github.com/cleared-dev/elmledger/internal/ledger"
	"github.com/cleared-dev/elmledger/internal/model"
	"github.com/cleared-dev/elmledger/internal/provider"
	"github.com/cleared-dev/elmledger/internal/resolve"
	"github.com/cleared-dev/elmledger/internal/store"
)

const (
	defaultConfigFile = "elmledger.yaml"
	defaultEnvFile    = ".env"
)

// app carries what the root command resolved before a subcommand runs.
type app struct {
	configPath string
	envFile    string
	logLevel   string

	cfg    *config.Config
	logger zerolog.Logger
}

// setup loads the env file and config, then builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	envFile := a.envFile
	if envFile == "" {
		if _, err := os.Stat(defaultEnvFile); err == nil {
			envFile = defaultEnvFile
		}
	}
	if envFile != "" {
		if err := config.LoadEnvFile(envFile); err != nil {
			return err
		}
	}

	cfg, err := config.Load(a.configPath)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config"):
		cfg = config.Default()
	case err != nil:
		return err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}

	logger, err := newLogger(cmd.ErrOrStderr(), cfg.Log)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	return nil
}

// newLogger builds a zerolog logger. The human format uses the console
// writer, anything else logs JSON.
func newLogger(w io.Writer, cfg config.LogConfig) (zerolog.Logger, error) {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
		if err != nil {
			return zerolog.Logger{}, fmt.Errorf("invalid log level %q", cfg.Level)
		}
		level = parsed
	}

	output := w
	if cfg.Format == "" || cfg.Format == "human" {
		output = zerolog.ConsoleWriter{Out: w}
	}
	return zerolog.New(output).Level(level).With().Timestamp().Logger(), nil
}

func (a *app) openStore() (store.Store, error) {
	st, err := store.Open(a.cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	return st, nil
}

func (a *app) newFetcher() *fetch.Fetcher {
	client := provider.NewClient(provider.ClientConfig{
		BaseURL: a.cfg.Provider.BaseURL,
		Token:   a.cfg.Provider.Token,
		Timeout: a.cfg.Provider.Timeout,
	})
	resolver := resolve.New(resolve.Options{
		Overrides:   a.cfg.Overrides(a.logger),
		Institution: a.cfg.Resolver.Institution,
		Logger:      a.logger.With().Str("component", "resolve").Logger(),
	})
	return fetch.NewFetcher(client, resolver, a.cfg.Provider.TransactionLimit,
		a.logger.With().Str("component", "fetch").Logger())
}

// openEngine wires an engine over the configured store. The caller closes
// the returned store.
func (a *app) openEngine() (*ledger.Engine, store.Store, error) {
	st, err := a.openStore()
	if err != nil {
		return nil, nil, err
	}
	return ledger.NewEngine(a.newFetcher(), st, a.logger.With().Str("component", "ledger").Logger()), st, nil
}

// activityPath is the activity log next to the store, or empty for the
// memory driver.
func (a *app) activityPath() string {
	if a.cfg.Store.Driver == store.DriverMemory || a.cfg.Store.Path == "" {
		return ""
	}
	return filepath.Join(filepath.Dir(a.cfg.Store.Path), activity.FileName)
}

// record appends to the activity log. The change itself already succeeded,
// so a failure here is only logged.
func (a *app) record(action string, slot model.Slot, details string) {
	path := a.activityPath()
	if path == "" {
		return
	}
	if err := activity.Append(path, activity.NewEntry(action, slot, details)); err != nil {
		a.logger.Warn().Err(err).Str("path", path).Msg("could not write activity log")
	}
}
