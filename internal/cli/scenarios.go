package cli

import (
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/inkatlas/datakit/internal/scenario"
)

// NewScenariosCommand creates the scenarios command.
func NewScenariosCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "scenarios",
		Short:         "List available seeding scenarios",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(func(injector do.Injector) error {
				registry := do.MustInvoke[*scenario.Registry](injector)

				scenarios := registry.All()
				if done, err := rootOpts.emit(cmd, scenarioListing(scenarios)); done {
					return err
				}
				for _, sc := range scenarios {
					cmd.Printf("%-14s %s\n", sc.Name, sc.Description)
				}
				return nil
			})
		},
	}
}

// scenarioListing strips the non-serializable predicate for JSON output.
func scenarioListing(scenarios []*scenario.Scenario) []map[string]any {
	out := make([]map[string]any, 0, len(scenarios))
	for _, sc := range scenarios {
		entry := map[string]any{
			"name":        sc.Name,
			"description": sc.Description,
		}
		if len(sc.IDs) > 0 {
			entry["ids"] = sc.IDs
		}
		if sc.MinItems > 0 {
			entry["min_items"] = sc.MinItems
		}
		if sc.EnsurePricingVariety {
			entry["ensure_pricing_variety"] = true
		}
		out = append(out, entry)
	}
	return out
}
