package cli

import (
	"time"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/inkatlas/datakit/internal/reconcile"
)

const timeRound = time.Millisecond

// NewReconcileCommand creates the reconcile command.
func NewReconcileCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Compare the primary store against the search index",
		Long: `Reconcile enumerates both stores and classifies every artist id as
consistent, missing from the index, extra in the index, or mismatched on a
denormalized field. It never repairs anything; use "reset" with a
rebuild-index state for that.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(func(injector do.Injector) error {
				reconciler := do.MustInvoke[*reconcile.Reconciler](injector)

				report, err := reconciler.Reconcile(cmd.Context())
				if report != nil {
					if done, emitErr := rootOpts.emit(cmd, report); done {
						if emitErr != nil {
							return emitErr
						}
						return err
					}
					printReport(cmd, report)
				}
				return err
			})
		},
	}
	return cmd
}

func printReport(cmd *cobra.Command, report *reconcile.Report) {
	cmd.Printf("primary: %d records, index: %d documents\n", report.PrimaryCount, report.IndexCount)
	if report.Partial {
		cmd.Printf("partial report: %s\n", report.Err)
	}
	if report.Consistent() {
		cmd.Println("stores are consistent")
		return
	}

	for _, id := range report.Missing {
		cmd.Printf("missing from index: %s\n", id)
	}
	for _, id := range report.Extra {
		cmd.Printf("extra in index:     %s\n", id)
	}
	for id, diffs := range report.Mismatched {
		for _, d := range diffs {
			cmd.Printf("mismatched %s: %s primary=%q index=%q\n", id, d.Field, d.Primary, d.Index)
		}
	}
	cmd.Printf("%d divergent records in %s\n", report.Drift(), report.Elapsed.Round(timeRound))
}
