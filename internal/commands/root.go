package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/elmledger/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "elmledger",
		Short:   "Reconcile bank data with the 672 Elm St LLC books",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", defaultConfigFile, "config file")
	flags.StringVar(&a.envFile, "env-file", "", "load environment variables from this file (default .env if present)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")

	rootCmd.AddCommand(
		newInitCommand(),
		newRefreshCommand(a),
		newShowCommand(a),
		newRenameCommand(a),
		newTermsCommand(a),
		newStatusCommand(a),
		newExportCommand(a),
		newHistoryCommand(a),
		newServeCommand(a),
	)

	return rootCmd
}
