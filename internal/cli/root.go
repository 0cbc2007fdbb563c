// Package cli wires the lifecycle engine's operations into a cobra command
// tree. Commands resolve their collaborators from the DI container and shut
// it down on exit so stores close cleanly.
package cli

import (
	"encoding/json/v2"
	"fmt"
	"os"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/inkatlas/datakit/internal/di"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Format string // "json" | "text"
}

// NewRootCommand creates the root command for the datakit CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "datakit",
		Short: "Dual-store data lifecycle engine",
		Long: `datakit seeds, resets, snapshots, and reconciles a primary record
store and its companion search index for the artist directory dataset.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.Format != "text" && opts.Format != "json" {
				return fmt.Errorf("invalid format %q: must be text or json", opts.Format)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewResetCommand(opts))
	cmd.AddCommand(NewReconcileCommand(opts))
	cmd.AddCommand(NewSnapshotCommand(opts))
	cmd.AddCommand(NewSearchCommand(opts))
	cmd.AddCommand(NewHealthCommand(opts))
	cmd.AddCommand(NewScenariosCommand(opts))

	return cmd
}

// withContainer runs fn with a fresh DI container and shuts it down after,
// so the stores release their file locks even on error paths.
func withContainer(fn func(injector do.Injector) error) error {
	injector := di.NewContainer()
	defer func() {
		if err := injector.Shutdown(); err != nil {
			fmt.Fprintf(os.Stderr, "shutdown: %v\n", err)
		}
	}()
	return fn(injector)
}

// emit prints v as JSON when --format=json was given and returns true;
// text-format commands print their own tables.
func (o *RootOptions) emit(cmd *cobra.Command, v any) (bool, error) {
	if o.Format != "json" {
		return false, nil
	}
	out, err := json.Marshal(v, json.Deterministic(true))
	if err != nil {
		return true, err
	}
	cmd.Println(string(out))
	return true, nil
}
