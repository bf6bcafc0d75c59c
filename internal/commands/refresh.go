package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/elmledger/internal/activity"
	"github.com/cleared-dev/elmledger/internal/ledger"
	"github.com/cleared-dev/elmledger/internal/store"
)

func newRefreshCommand(a *app) *cobra.Command {
	var asJSON bool
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Fetch live bank data and merge it into the saved accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			target := store.Store(st)
			if dryRun {
				target, err = scratchCopy(st)
				if err != nil {
					return err
				}
			}

			engine := ledger.NewEngine(a.newFetcher(), target, a.logger.With().Str("component", "ledger").Logger())
			accts, err := engine.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("refresh failed (saved data is unchanged, see `elmledger show`): %w", err)
			}
			if !dryRun {
				a.record(activity.ActionRefresh, "", fmt.Sprintf("%d accounts", len(accts)))
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), accts)
			}
			return printSummary(cmd.OutOrStdout(), accts)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the merged accounts as JSON")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "merge without saving")

	return cmd
}

// scratchCopy returns an in-memory store holding whatever st holds.
func scratchCopy(st store.Store) (*store.MemoryStore, error) {
	mem := store.NewMemoryStore()
	current, ok, err := st.Get()
	if err != nil {
		return nil, fmt.Errorf("reading store: %w", err)
	}
	if ok {
		if err := mem.Set(current); err != nil {
			return nil, err
		}
	}
	return mem, nil
}
