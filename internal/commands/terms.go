package commands

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/elmledger/internal/activity"
	"github.com/cleared-dev/elmledger/internal/model"
)

func newTermsCommand(a *app) *cobra.Command {
	var principal string
	var rate string
	var years int
	var shares []string

	cmd := &cobra.Command{
		Use:   "terms <slot>",
		Short: "Set the financing terms of a loan",
		Long: `Set the financing terms of a loan.

Each --share is name=amount. Shares must add up to the principal.`,
		Example: "  elmledger terms memberLoan --principal 15000 --rate 5 --years 10 --share Julie=7500 --share David=7500",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slot, err := model.ParseSlot(args[0])
			if err != nil {
				return err
			}
			terms, err := parseTerms(principal, rate, years, shares)
			if err != nil {
				return err
			}

			engine, st, err := a.openEngine()
			if err != nil {
				return err
			}
			defer st.Close()

			acct, err := engine.SetTerms(slot, terms)
			if err != nil {
				return err
			}
			a.record(activity.ActionTerms, slot, fmt.Sprintf("%s at %s%% over %d years",
				money(terms.Principal), terms.InterestRate, terms.TermYears))
			printAccount(cmd.OutOrStdout(), slot, acct)
			return nil
		},
	}

	cmd.Flags().StringVar(&principal, "principal", "", "loan principal (required)")
	_ = cmd.MarkFlagRequired("principal")
	cmd.Flags().StringVar(&rate, "rate", "", "annual interest rate in percent (required)")
	_ = cmd.MarkFlagRequired("rate")
	cmd.Flags().IntVar(&years, "years", 0, "term in years (required)")
	_ = cmd.MarkFlagRequired("years")
	cmd.Flags().StringArrayVar(&shares, "share", nil, "contributor share as name=amount (repeatable)")

	return cmd
}

func parseTerms(principal, rate string, years int, shares []string) (model.FinancingTerms, error) {
	p, err := decimal.NewFromString(principal)
	if err != nil {
		return model.FinancingTerms{}, fmt.Errorf("parsing principal %q: %w", principal, err)
	}
	r, err := decimal.NewFromString(rate)
	if err != nil {
		return model.FinancingTerms{}, fmt.Errorf("parsing rate %q: %w", rate, err)
	}

	terms := model.FinancingTerms{Principal: p, InterestRate: r, TermYears: years}
	if len(shares) > 0 {
		terms.Breakdown = make(map[string]decimal.Decimal, len(shares)+1)
		for _, s := range shares {
			name, amount, ok := strings.Cut(s, "=")
			name = strings.TrimSpace(name)
			if !ok || name == "" {
				return model.FinancingTerms{}, fmt.Errorf("share %q: want name=amount", s)
			}
			v, err := decimal.NewFromString(strings.TrimSpace(amount))
			if err != nil {
				return model.FinancingTerms{}, fmt.Errorf("share %q: %w", s, err)
			}
			terms.Breakdown[name] = v
		}
		terms.Breakdown[model.BreakdownTotalKey] = p
	}
	return terms, nil
}
