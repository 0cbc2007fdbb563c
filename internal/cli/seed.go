package cli

import (
	"context"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/inkatlas/datakit/internal/config"
	"github.com/inkatlas/datakit/internal/dataset"
	"github.com/inkatlas/datakit/internal/di/providers"
	"github.com/inkatlas/datakit/internal/domain"
	"github.com/inkatlas/datakit/internal/logger"
	"github.com/inkatlas/datakit/internal/scenario"
	"github.com/inkatlas/datakit/internal/seeder"
)

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	var scenarioName string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed both stores from the canonical dataset",
		Long: `Seed writes the selected scenario through the dual-store pipeline:
validation first, then the primary store, then the search index. Individual
record failures are counted, not fatal; the summary reports loaded and
failed per kind.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(func(injector do.Injector) error {
				cfg := do.MustInvoke[*config.Config](injector)
				s := do.MustInvoke[*providers.StoreHandle](injector)
				idx := do.MustInvoke[*providers.IndexHandle](injector)
				ds := do.MustInvoke[*dataset.Dataset](injector)
				registry := do.MustInvoke[*scenario.Registry](injector)
				writer := do.MustInvoke[*seeder.Writer](injector)
				log := do.MustInvoke[*logger.Logger](injector)

				ctx := cmd.Context()
				err := seeder.WaitReady(ctx, cfg.Readiness.Attempts, cfg.Readiness.Backoff,
					func(ctx context.Context) error {
						_, err := s.Describe(ctx)
						return err
					},
					func(ctx context.Context) error {
						_, err := idx.Count()
						return err
					},
				)
				if err != nil {
					return err
				}

				sc, err := registry.Get(scenarioName)
				if err != nil {
					return err
				}

				ws := scenario.Select(ds, sc)
				if sc.MinItems > 0 && len(ws.Artists) < sc.MinItems {
					log.Debug("scenario selection short of its floor",
						"scenario", sc.Name, "selected", len(ws.Artists), "min_items", sc.MinItems)
				}

				summary, err := writer.WriteAll(ctx, ws)
				if err != nil {
					return err
				}

				if done, err := rootOpts.emit(cmd, summary); done {
					return err
				}
				printSummary(cmd, summary)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&scenarioName, "scenario", "full", "scenario to seed")
	return cmd
}

func printSummary(cmd *cobra.Command, summary *seeder.Summary) {
	cmd.Printf("scenario: %s\n", summary.Scenario)
	cmd.Printf("%-10s %8s %8s\n", "kind", "loaded", "failed")
	for _, kind := range domain.Kinds() {
		ks := summary.Kinds[kind]
		cmd.Printf("%-10s %8d %8d\n", kind, ks.Loaded, ks.Failed)
	}
	cmd.Printf("%-10s %8d %8d\n", "total", summary.Loaded(), summary.Failed())
	if summary.Partial > 0 {
		cmd.Printf("partial index failures: %d (stores are drifted, run reconcile)\n", summary.Partial)
	}
	cmd.Printf("elapsed: %s\n", summary.Elapsed)
}
