package cli

import (
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/inkatlas/datakit/internal/reset"
)

// NewResetCommand creates the reset command.
func NewResetCommand(rootOpts *RootOptions) *cobra.Command {
	var verify bool

	cmd := &cobra.Command{
		Use:   "reset <state>",
		Short: "Drive the stores into a named state",
		Long: `Reset executes the named state's action sequence in order. The first
failing action aborts the run; completed actions are not rolled back.

Run "datakit reset list" to see the available states.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(func(injector do.Injector) error {
				orchestrator := do.MustInvoke[*reset.Orchestrator](injector)

				if args[0] == "list" {
					return printStates(cmd, rootOpts, orchestrator)
				}

				result, err := orchestrator.Reset(cmd.Context(), args[0])
				if result != nil {
					if done, emitErr := rootOpts.emit(cmd, result); done {
						if emitErr != nil {
							return emitErr
						}
						return err
					}
					printResetResult(cmd, result)
				}
				if err != nil {
					return err
				}

				if verify {
					report, err := orchestrator.Verify(cmd.Context(), args[0])
					if err != nil {
						return err
					}
					cmd.Printf("verified: primary %v, index docs %d\n", report.Counts, report.IndexDoc)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&verify, "verify", false, "report store counts after the reset")
	return cmd
}

func printStates(cmd *cobra.Command, rootOpts *RootOptions, o *reset.Orchestrator) error {
	states := o.States()
	if done, err := rootOpts.emit(cmd, states); done {
		return err
	}
	for _, st := range states {
		cmd.Printf("%-12s %s\n", st.Name, st.Description)
		for _, action := range st.Actions {
			cmd.Printf("             - %s\n", action)
		}
	}
	return nil
}

func printResetResult(cmd *cobra.Command, result *reset.Result) {
	for _, ar := range result.Completed {
		status := "ok"
		if ar.Err != "" {
			status = "FAILED: " + ar.Err
		}
		cmd.Printf("%-28s %-10s %s\n", ar.Action, ar.Elapsed.Round(timeRound), status)
	}
	if result.Aborted {
		cmd.Printf("reset %s aborted; completed actions were not rolled back\n", result.State)
		return
	}
	cmd.Printf("reset %s complete in %s\n", result.State, result.Elapsed.Round(timeRound))
}
