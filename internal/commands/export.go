package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/elmledger/internal/accounts"
)

func newExportCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Write a CSV summary of the saved accounts (stdout if no file)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			accts, ok, err := st.Get()
			if err != nil {
				return err
			}
			if !ok {
				return errNoData
			}

			var w io.Writer = cmd.OutOrStdout()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Create(args[0])
				if err != nil {
					return fmt.Errorf("creating %s: %w", args[0], err)
				}
				defer f.Close()
				w = f
			}

			if err := accounts.WriteSummary(w, accounts.NewService(accts).All()); err != nil {
				return fmt.Errorf("writing summary: %w", err)
			}
			return nil
		},
	}
	return cmd
}
