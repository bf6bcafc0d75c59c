package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/elmledger/internal/config"
	"github.com/cleared-dev/elmledger/internal/store"
)

func newInitCommand() *cobra.Command {
	var providerURL string
	var driver string
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a default elmledger.yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			path, err := runInit(absDir, providerURL, driver, force)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&providerURL, "provider-url", "", "bank-data provider base URL")
	cmd.Flags().StringVar(&driver, "store", store.DriverBolt, "store driver: bolt, sqlite or file")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config")

	return cmd
}

func runInit(dir, providerURL, driver string, force bool) (string, error) {
	if err := os.MkdirAll(filepath.Join(dir, "data"), 0o755); err != nil {
		return "", fmt.Errorf("creating directory data: %w", err)
	}

	path := filepath.Join(dir, defaultConfigFile)
	if _, err := os.Stat(path); err == nil && !force {
		return "", fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("checking config: %w", err)
	}

	cfg := config.Default()
	if providerURL != "" {
		cfg.Provider.BaseURL = providerURL
	}
	switch driver {
	case store.DriverBolt:
	case store.DriverSQLite:
		cfg.Store.Path = filepath.Join("data", "elmledger.sqlite")
	case store.DriverFile:
		cfg.Store.Path = filepath.Join("data", "elmledger.json")
	default:
		return "", fmt.Errorf("%w: %q", store.ErrUnknownDriver, driver)
	}
	cfg.Store.Driver = driver

	if err := config.Save(path, cfg); err != nil {
		return "", fmt.Errorf("writing config: %w", err)
	}

	gitignore := "data/\n.env\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return "", fmt.Errorf("writing .gitignore: %w", err)
	}

	return path, nil
}
