package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/Veraticus/inkwell/internal/align"
	"github.com/Veraticus/inkwell/internal/classification"
	"github.com/Veraticus/inkwell/internal/common"
)

// Configuration keys.
const (
	KeyDatabasePath   = "database.path"
	KeyEpsilon        = "classification.epsilon"
	KeyCenter         = "classification.center"
	KeyMode           = "classification.mode"
	KeyThreshold      = "classification.threshold"
	KeyTopK           = "classification.top_k"
	KeyWorkers        = "classification.workers"
	KeyFolds          = "validation.folds"
	KeyMinOccurrences = "validation.min_occurrences"
	KeyLogLevel       = "logging.level"
	KeyLogFormat      = "logging.format"
)

// Validation holds the cross-validation settings.
type Validation struct {
	Folds          int
	MinOccurrences int
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	defaults := classification.DefaultOptions()

	v.SetDefault(KeyDatabasePath, DefaultDatabasePath())
	v.SetDefault(KeyEpsilon, defaults.Epsilon)
	v.SetDefault(KeyCenter, defaults.Center)
	v.SetDefault(KeyMode, string(defaults.Mode))
	v.SetDefault(KeyThreshold, defaults.Threshold)
	v.SetDefault(KeyTopK, defaults.TopK)
	v.SetDefault(KeyWorkers, defaults.Workers)
	v.SetDefault(KeyFolds, 10)
	v.SetDefault(KeyMinOccurrences, 10)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
}

// DefaultDatabasePath returns the database location used when none is configured.
func DefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "inkwell.db")
	}
	return filepath.Join(home, ".local", "share", "inkwell", "inkwell.db")
}

// DatabasePath returns the configured database path with ~ and variables expanded.
func DatabasePath(v *viper.Viper) string {
	path := v.GetString(KeyDatabasePath)
	if path == "" {
		path = DefaultDatabasePath()
	}
	return ExpandPath(path)
}

// Classification reads and validates the classifier settings.
func Classification(v *viper.Viper) (classification.Options, error) {
	mode, err := align.ParseMode(v.GetString(KeyMode))
	if err != nil {
		return classification.Options{}, err
	}

	opts := classification.Options{
		Mode:      mode,
		Epsilon:   v.GetFloat64(KeyEpsilon),
		Center:    v.GetBool(KeyCenter),
		Threshold: v.GetFloat64(KeyThreshold),
		TopK:      v.GetInt(KeyTopK),
		Workers:   v.GetInt(KeyWorkers),
	}
	if err := opts.Validate(); err != nil {
		return classification.Options{}, err
	}
	return opts, nil
}

// ValidationSettings reads and validates the cross-validation settings.
func ValidationSettings(v *viper.Viper) (Validation, error) {
	val := Validation{
		Folds:          v.GetInt(KeyFolds),
		MinOccurrences: v.GetInt(KeyMinOccurrences),
	}
	if val.Folds < 2 {
		return Validation{}, fmt.Errorf("%w: %s must be at least 2, got %d", common.ErrInvalidConfig, KeyFolds, val.Folds)
	}
	if val.MinOccurrences < val.Folds {
		return Validation{}, fmt.Errorf("%w: %s (%d) must be at least %s (%d)",
			common.ErrInvalidConfig, KeyMinOccurrences, val.MinOccurrences, KeyFolds, val.Folds)
	}
	return val, nil
}
