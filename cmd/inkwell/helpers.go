package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/inkwell/internal/classification"
	"github.com/Veraticus/inkwell/internal/common"
	"github.com/Veraticus/inkwell/internal/config"
	"github.com/Veraticus/inkwell/internal/service"
	"github.com/Veraticus/inkwell/internal/storage"
)

// storageRetry governs retries when the database is busy.
var storageRetry = service.RetryOptions{
	MaxAttempts:  5,
	InitialDelay: 50 * time.Millisecond,
	MaxDelay:     2 * time.Second,
	Multiplier:   2,
}

// initStorage opens the configured database and brings its schema up to date.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := config.DatabasePath(viper.GetViper())

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// classificationFlags maps flag names to the configuration keys they override.
var classificationFlags = map[string]string{
	"epsilon":   config.KeyEpsilon,
	"center":    config.KeyCenter,
	"mode":      config.KeyMode,
	"threshold": config.KeyThreshold,
	"top-k":     config.KeyTopK,
	"workers":   config.KeyWorkers,
}

// addClassificationFlags registers the tuning flags shared by classify and
// validate. Defaults live in viper, so flags only override when set.
func addClassificationFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("epsilon", 0, "Douglas-Peucker tolerance in input units (0 disables simplification)")
	cmd.Flags().Bool("center", false, "center drawings inside the unit square")
	cmd.Flags().String("mode", "dtw", "alignment mode (dtw, greedy)")
	cmd.Flags().Float64("threshold", 20, "discard candidates at or above this distance")
	cmd.Flags().Int("top-k", 10, "number of symbols to report")
	cmd.Flags().Int("workers", 1, "parallel workers")
}

// classificationOptions reads the configured tuning values and attaches a
// diagnostics sink that forwards to the default logger.
func classificationOptions() (classification.Options, error) {
	opts, err := config.Classification(viper.GetViper())
	if err != nil {
		return opts, userError("invalid classification settings", err)
	}
	opts.Diagnostics = common.NewDiagnostics(slog.Default())
	return opts, nil
}

// bindFlags binds flags to viper keys. It runs in PreRunE because binding in
// the constructor would let the last command registered win.
func bindFlags(cmd *cobra.Command, flags map[string]string) error {
	for flag, key := range flags {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return fmt.Errorf("failed to bind --%s: %w", flag, err)
		}
	}
	return nil
}

// userError wraps err in a message suitable for the terminal.
func userError(message string, err error) error {
	return common.NewUserError(message, err)
}
