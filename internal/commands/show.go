package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/elmledger/internal/model"
)

var errNoData = errors.New("no saved accounts yet; run `elmledger refresh` first")

func newShowCommand(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show [slot]",
		Short: "Show the saved accounts without contacting the bank",
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

			out := cmd.OutOrStdout()
			if len(args) == 0 {
				if asJSON {
					return writeJSON(out, accts)
				}
				return printSummary(out, accts)
			}

			slot, err := model.ParseSlot(args[0])
			if err != nil {
				return err
			}
			acct, ok := accts[slot]
			if !ok {
				return errNoData
			}
			if asJSON {
				return writeJSON(out, acct)
			}
			printAccount(out, slot, acct)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")

	return cmd
}
