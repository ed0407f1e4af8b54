package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/inkwell/internal/cli"
	"github.com/Veraticus/inkwell/internal/config"
	"github.com/Veraticus/inkwell/internal/storage"
)

func migrateCmd() *cobra.Command {
	var status bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Bring the database schema up to date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := storage.NewSQLiteStorage(config.DatabasePath(viper.GetViper()))
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			version, err := store.SchemaVersion(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if status {
				fmt.Fprintf(out, "Database: %s\n", store.Path())
				fmt.Fprintf(out, "Schema version: %d (expected %d)\n", version, storage.ExpectedSchemaVersion)
				if version < storage.ExpectedSchemaVersion {
					fmt.Fprintln(out, cli.FormatWarning("Migrations pending"))
				}
				return nil
			}

			if version >= storage.ExpectedSchemaVersion {
				fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Schema is up to date (version %d)", version)))
				return nil
			}

			if err := store.Migrate(ctx); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}
			fmt.Fprintln(out, cli.FormatSuccess(
				fmt.Sprintf("Migrated schema from version %d to %d", version, storage.ExpectedSchemaVersion)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&status, "status", false, "only report the schema version")

	return cmd
}
