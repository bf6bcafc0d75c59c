package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/elmledger/internal/accounts"
	"github.com/cleared-dev/elmledger/internal/model"
)

var (
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
	faint  = color.New(color.Faint)
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatBalance renders a balance for the terminal: liabilities in red,
// everything else in green, a dash when there is none.
func formatBalance(acct model.Account) string {
	if !acct.Balance.Valid {
		return faint.Sprint("-")
	}
	s := money(acct.Balance.Decimal)
	if acct.Kind == model.KindLiability {
		return red.Sprint(s)
	}
	return green.Sprint(s)
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// printSummary writes one row per slot in display order.
func printSummary(w io.Writer, st model.Store) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SLOT\tNAME\tKIND\tBALANCE\tTXNS")
	for _, e := range accounts.NewService(st).All() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n",
			e.Slot, e.Account.Name, e.Account.Kind, formatBalance(e.Account), len(e.Account.Transactions))
	}
	return tw.Flush()
}

// printAccount writes the detail view of one account.
func printAccount(w io.Writer, slot model.Slot, acct model.Account) {
	fmt.Fprintf(w, "%s (%s)\n", color.New(color.Bold).Sprint(acct.Name), slot)
	if acct.Subtitle != "" {
		fmt.Fprintf(w, "  %s\n", acct.Subtitle)
	}
	fmt.Fprintf(w, "  Balance: %s\n", formatBalance(acct))

	if t := acct.FinancingTerms; t != nil {
		fmt.Fprintf(w, "  Terms: %s at %s%% over %d years\n", money(t.Principal), t.InterestRate.String(), t.TermYears)
		for _, name := range t.Contributors() {
			fmt.Fprintf(w, "    %s: %s\n", name, money(t.Breakdown[name]))
		}
	}

	if acct.Kind == model.KindRevenue {
		if acct.TotalMonthlyRent != nil {
			fmt.Fprintf(w, "  Expected monthly rent: %s\n", money(*acct.TotalMonthlyRent))
		}
		for _, rec := range acct.MonthlyRecords {
			due, received, _ := acct.ReceivedForMonth(rec.Month)
			line := fmt.Sprintf("  %s: received %s of %s", rec.Month, money(received), money(due))
			if received.LessThan(due) {
				yellow.Fprintln(w, line)
			} else {
				fmt.Fprintln(w, line)
			}
		}
	}

	if len(acct.Transactions) == 0 {
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  DATE\tDESCRIPTION\tDEBIT\tCREDIT")
	for _, txn := range acct.Transactions {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", txn.Date, txn.Description, txn.Debit.StringFixed(2), txn.Credit.StringFixed(2))
	}
	_ = tw.Flush()
}
