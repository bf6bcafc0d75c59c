package commands

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/elmledger/internal/activity"
	"github.com/cleared-dev/elmledger/internal/model"
)

func newHistoryCommand(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [slot]",
		Short: "List recent refreshes and edits, newest first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.activityPath()
			if path == "" {
				return errors.New("the memory store keeps no history")
			}

			var slot model.Slot
			if len(args) == 1 {
				var err error
				if slot, err = model.ParseSlot(args[0]); err != nil {
					return err
				}
			}

			entries, err := activity.Read(path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "WHEN\tACTION\tSLOT\tDETAILS")
			shown := 0
			for i := len(entries) - 1; i >= 0 && (limit <= 0 || shown < limit); i-- {
				e := entries[i]
				// Refreshes touch every slot.
				if slot != "" && e.Slot != "" && e.Slot != slot {
					continue
				}
				target := string(e.Slot)
				if target == "" {
					target = faint.Sprint("all")
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
					e.Timestamp.Local().Format(time.DateTime), e.Action, target, e.Details)
				shown++
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			if shown == 0 {
				fmt.Fprintln(out, "No activity yet.")
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum entries to show (0 for all)")

	return cmd
}
