package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/inkwell/internal/cli"
	"github.com/Veraticus/inkwell/internal/storage"
)

func snapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Manage corpus snapshots",
		Long: `Snapshots are point-in-time copies of the corpus database. One is taken
automatically before every import; the five most recent automatic snapshots
are kept.`,
	}

	cmd.AddCommand(createSnapshotCmd())
	cmd.AddCommand(listSnapshotsCmd())
	cmd.AddCommand(restoreSnapshotCmd())
	cmd.AddCommand(deleteSnapshotCmd())

	return cmd
}

// withSnapshots opens the database and its snapshot manager for fn.
func withSnapshots(cmd *cobra.Command, fn func(*storage.SnapshotManager) error) error {
	store, err := initStorage(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	manager, err := store.Snapshots()
	if errors.Is(err, storage.ErrInMemoryDatabase) {
		return userError("snapshots need a database file", err)
	}
	if err != nil {
		return err
	}
	return fn(manager)
}

func snapshotUserError(id string, err error) error {
	switch {
	case errors.Is(err, storage.ErrSnapshotNotFound):
		return userError(fmt.Sprintf("no snapshot %q", id), err)
	case errors.Is(err, storage.ErrSnapshotExists):
		return userError(fmt.Sprintf("snapshot %q already exists", id), err)
	case errors.Is(err, storage.ErrInvalidTag):
		return userError(fmt.Sprintf("%q is not a valid snapshot tag", id), err)
	case errors.Is(err, storage.ErrSnapshotCorrupted):
		return userError(fmt.Sprintf("snapshot %q is corrupted", id), err)
	}
	return err
}

func createSnapshotCmd() *cobra.Command {
	var tag, description string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Take a snapshot of the corpus",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSnapshots(cmd, func(m *storage.SnapshotManager) error {
				info, err := m.Create(cmd.Context(), tag, description)
				if err != nil {
					return snapshotUserError(tag, err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(
					fmt.Sprintf("Created snapshot %s (%d symbols, %d samples)", info.ID, info.Symbols, info.Samples)))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&tag, "tag", "t", "", "snapshot name (defaults to a timestamp)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "note stored with the snapshot")

	return cmd
}

func listSnapshotsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List snapshots, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSnapshots(cmd, func(m *storage.SnapshotManager) error {
				snapshots, err := m.List(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, cli.SubtleStyle.Render(cli.FolderIcon+" "+m.Dir()))
				return cli.RenderSnapshots(out, snapshots)
			})
		},
	}
}

func restoreSnapshotCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "restore <id>",
		Short: "Replace the corpus with a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSnapshots(cmd, func(m *storage.SnapshotManager) error {
				ctx := cmd.Context()
				if !force {
					safety, err := m.Auto(ctx, "restore")
					if err != nil {
						return fmt.Errorf("failed to snapshot before restore (use --force to skip): %w", err)
					}
					cmd.PrintErrln(cli.FormatInfo("Current corpus saved as " + safety.ID))
				}
				if err := m.Restore(ctx, args[0]); err != nil {
					return snapshotUserError(args[0], err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Restored snapshot "+args[0]))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "skip the safety snapshot of the current corpus")

	return cmd
}

func deleteSnapshotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSnapshots(cmd, func(m *storage.SnapshotManager) error {
				if err := m.Delete(cmd.Context(), args[0]); err != nil {
					return snapshotUserError(args[0], err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Deleted snapshot "+args[0]))
				return nil
			})
		},
	}
}
