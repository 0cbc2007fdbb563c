package cli

import (
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/inkatlas/datakit/internal/snapshot"
)

// NewSnapshotCommand creates the snapshot command group.
func NewSnapshotCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Capture and restore primary-store snapshots",
		Long: `Snapshots are immutable point-in-time exports of the primary store.
Restoring replaces the store's contents wholesale and leaves the search
index untouched; rebuild it afterwards (see "reset restored").`,
	}

	cmd.AddCommand(newSnapshotCreateCommand(rootOpts))
	cmd.AddCommand(newSnapshotListCommand(rootOpts))
	cmd.AddCommand(newSnapshotRestoreCommand(rootOpts))
	return cmd
}

func newSnapshotCreateCommand(rootOpts *RootOptions) *cobra.Command {
	var key string

	cmd := &cobra.Command{
		Use:           "create",
		Short:         "Export the primary store to a new snapshot",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(func(injector do.Injector) error {
				manager := do.MustInvoke[*snapshot.Manager](injector)
				created, err := manager.Create(cmd.Context(), key)
				if err != nil {
					return err
				}
				if done, err := rootOpts.emit(cmd, map[string]string{"key": created}); done {
					return err
				}
				cmd.Printf("snapshot created: %s\n", created)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&key, "key", "", "snapshot key (generated when empty)")
	return cmd
}

func newSnapshotListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List snapshots, newest first",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(func(injector do.Injector) error {
				manager := do.MustInvoke[*snapshot.Manager](injector)
				infos, err := manager.List(cmd.Context())
				if err != nil {
					return err
				}
				if done, err := rootOpts.emit(cmd, infos); done {
					return err
				}
				if len(infos) == 0 {
					cmd.Println("no snapshots")
					return nil
				}
				for _, info := range infos {
					cmd.Printf("%-40s %10d bytes  %s\n", info.Key, info.Size, info.CreatedAt.Format("2006-01-02 15:04:05"))
				}
				return nil
			})
		},
	}
}

func newSnapshotRestoreCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "restore [key]",
		Short:         "Replace the primary store with a snapshot",
		Long:          "Restore replaces the primary store wholesale. Without a key the newest snapshot is used. The search index is not touched.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(func(injector do.Injector) error {
				manager := do.MustInvoke[*snapshot.Manager](injector)
				key := ""
				if len(args) == 1 {
					key = args[0]
				}
				restored, err := manager.Restore(cmd.Context(), key)
				if err != nil {
					return err
				}
				if done, err := rootOpts.emit(cmd, map[string]string{"key": restored}); done {
					return err
				}
				cmd.Printf("restored snapshot %s; the search index is stale until rebuilt\n", restored)
				return nil
			})
		},
	}
}
