package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/elmledger/internal/activity"
	"github.com/cleared-dev/elmledger/internal/model"
)

func newRenameCommand(a *app) *cobra.Command {
	var name string
	var subtitle string

	cmd := &cobra.Command{
		Use:   "rename <slot>",
		Short: "Change an account's display name or subtitle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" && subtitle == "" {
				return errors.New("--name or --subtitle is required")
			}
			slot, err := model.ParseSlot(args[0])
			if err != nil {
				return err
			}

			engine, st, err := a.openEngine()
			if err != nil {
				return err
			}
			defer st.Close()

			acct, err := engine.Rename(slot, name, subtitle)
			if err != nil {
				return err
			}
			a.record(activity.ActionRename, slot, fmt.Sprintf("name %q subtitle %q", acct.Name, acct.Subtitle))
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %q\n", slot, acct.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new display name")
	cmd.Flags().StringVar(&subtitle, "subtitle", "", "new subtitle")

	return cmd
}
