package cli

import (
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/inkatlas/datakit/internal/di/providers"
	"github.com/inkatlas/datakit/internal/search"
)

// NewSearchCommand creates the search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	params := search.DefaultSearchParams()

	cmd := &cobra.Command{
		Use:           "search [query]",
		Short:         "Query the artist search index",
		Long:          "Search runs a free-text and filter query directly against the index, which makes index drift visible: a restored-but-not-rebuilt index answers with pre-restore data.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(func(injector do.Injector) error {
				idx := do.MustInvoke[*providers.IndexHandle](injector)

				if len(args) == 1 {
					params.Query = args[0]
				}
				result, err := idx.Search(cmd.Context(), params)
				if err != nil {
					return err
				}

				if done, err := rootOpts.emit(cmd, result); done {
					return err
				}
				cmd.Printf("%d hits (%dms)\n", result.Total, result.TookMs)
				for _, hit := range result.Hits {
					cmd.Printf("%-14s %-24s @%-18s %-12s %.1f\n", hit.ID, hit.Name, hit.Handle, hit.City, hit.Rating)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVar(&params.Styles, "style", nil, "filter by style slug (repeatable)")
	cmd.Flags().StringVar(&params.City, "city", "", "filter by city")
	cmd.Flags().StringVar(&params.Country, "country", "", "filter by country code")
	cmd.Flags().StringVar(&params.Pricing, "pricing", "", "filter by pricing tier")
	cmd.Flags().Float64Var(&params.MinRating, "min-rating", 0, "minimum rating")
	cmd.Flags().IntVar(&params.Limit, "limit", 20, "maximum hits")
	cmd.Flags().IntVar(&params.Offset, "offset", 0, "pagination offset")
	return cmd
}
