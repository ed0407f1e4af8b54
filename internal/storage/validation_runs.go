package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/inkwell/internal/common"
	"github.com/Veraticus/inkwell/internal/model"
)

const runColumns = `
	id, started_at, mode, epsilon, center, fold_count, min_occurrences, top_k,
	sample_count, top1_accuracy, topk_accuracy, average_time_ns, symbols, folds`

// SaveValidationRun persists a cross-validation report.
func (s *SQLiteStorage) SaveValidationRun(ctx context.Context, run *model.ValidationRun) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRun(run); err != nil {
		return err
	}

	symbols := run.Symbols
	if symbols == nil {
		symbols = []string{}
	}
	symbolsJSON, err := json.Marshal(symbols)
	if err != nil {
		return fmt.Errorf("failed to marshal symbols: %w", err)
	}

	folds := run.Folds
	if folds == nil {
		folds = []model.FoldResult{}
	}
	foldsJSON, err := json.Marshal(folds)
	if err != nil {
		return fmt.Errorf("failed to marshal folds: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO validation_runs (`+runColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.UTC(), run.Mode, run.Epsilon, run.Center, run.FoldCount,
		run.MinOccurrences, run.TopK, run.SampleCount, run.Top1Accuracy, run.TopKAccuracy,
		run.AverageTime.Nanoseconds(), string(symbolsJSON), string(foldsJSON))
	if err != nil {
		return fmt.Errorf("failed to save validation run: %w", translateError(err))
	}
	return nil
}

// GetValidationRun returns one report by id.
func (s *SQLiteStorage) GetValidationRun(ctx context.Context, id string) (*model.ValidationRun, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM validation_runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: validation run %s", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query validation run: %w", err)
	}
	return run, nil
}

// GetValidationRuns returns the most recent reports first. A limit of zero
// returns all of them.
func (s *SQLiteStorage) GetValidationRuns(ctx context.Context, limit int) ([]model.ValidationRun, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `SELECT ` + runColumns + ` FROM validation_runs ORDER BY started_at DESC, id`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query validation runs: %w", err)
	}
	defer rows.Close()

	var runs []model.ValidationRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan validation run: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating validation runs: %w", err)
	}
	return runs, nil
}

func scanRun(row scanner) (*model.ValidationRun, error) {
	var (
		run         model.ValidationRun
		averageNS   int64
		symbolsJSON string
		foldsJSON   string
	)

	err := row.Scan(&run.ID, &run.StartedAt, &run.Mode, &run.Epsilon, &run.Center, &run.FoldCount,
		&run.MinOccurrences, &run.TopK, &run.SampleCount, &run.Top1Accuracy, &run.TopKAccuracy,
		&averageNS, &symbolsJSON, &foldsJSON)
	if err != nil {
		return nil, err
	}

	run.AverageTime = time.Duration(averageNS)
	if err := json.Unmarshal([]byte(symbolsJSON), &run.Symbols); err != nil {
		return nil, fmt.Errorf("failed to unmarshal symbols: %w", err)
	}
	if err := json.Unmarshal([]byte(foldsJSON), &run.Folds); err != nil {
		return nil, fmt.Errorf("failed to unmarshal folds: %w", err)
	}
	return &run, nil
}
