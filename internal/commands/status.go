package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newStatusCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show which bank accounts map to which slots, without saving",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, report, err := a.newFetcher().FetchWithReport(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ACCOUNT\tNAME\tSLOT\tMATCHED BY\tBALANCE\tTRANSACTIONS")
			for _, rec := range report.Records {
				slot, by := string(rec.Slot), rec.Strategy
				if !rec.Resolved {
					slot, by = yellow.Sprint("unmapped"), "-"
				}
				txns := fmt.Sprintf("%d", len(rec.Live.Transactions))
				if rec.TransactionsErr != nil {
					txns = red.Sprint("error: " + rec.TransactionsErr.Error())
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					rec.AccountID, rec.Label, slot, by, rec.BalanceSource, txns)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			fmt.Fprintf(out, "\n%d of %d accounts mapped\n", report.Resolved(), len(report.Records))
			return nil
		},
	}
	return cmd
}
