package storage

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/inkwell/internal/common"
	"github.com/Veraticus/inkwell/internal/model"
	"github.com/Veraticus/inkwell/internal/service"
)

const sampleColumns = `
	sa.id, sa.symbol_id, COALESCE(sa.accepted_symbol_id, sa.symbol_id), sy.label, sa.data, sa.created_at`

const sampleJoin = `
	FROM samples sa
	JOIN symbols sy ON sy.id = COALESCE(sa.accepted_symbol_id, sa.symbol_id)`

// SaveSample stores a recording and fills in its ID and CreatedAt. A payload
// already stored for the same symbol yields common.ErrDuplicateEntry.
func (s *SQLiteStorage) SaveSample(ctx context.Context, sample *model.RawSample) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRawSample(sample); err != nil {
		return err
	}
	return saveSample(ctx, s.db, sample)
}

func saveSample(ctx context.Context, q querier, sample *model.RawSample) error {
	var accepted any
	if sample.AcceptedSymbolID > 0 {
		accepted = sample.AcceptedSymbolID
	}

	result, err := q.ExecContext(ctx, `
		INSERT INTO samples (symbol_id, accepted_symbol_id, data, data_hash)
		VALUES (?, ?, ?, ?)`,
		sample.SymbolID, accepted, string(sample.Data), hashData(sample.Data))
	if err != nil {
		return fmt.Errorf("failed to save sample: %w", translateError(err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get sample id: %w", err)
	}

	saved, err := getSample(ctx, q, id)
	if err != nil {
		return err
	}
	*sample = *saved
	return nil
}

// hashData fingerprints a payload, ignoring surrounding whitespace.
func hashData(data []byte) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(string(data))))
	return hex.EncodeToString(sum[:])
}

// GetSample returns one recording by id.
func (s *SQLiteStorage) GetSample(ctx context.Context, id int64) (*model.RawSample, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id, "id"); err != nil {
		return nil, err
	}
	return getSample(ctx, s.db, id)
}

func getSample(ctx context.Context, q querier, id int64) (*model.RawSample, error) {
	row := q.QueryRowContext(ctx, `SELECT `+sampleColumns+sampleJoin+` WHERE sa.id = ?`, id)

	sample, err := scanSample(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: sample %d", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query sample: %w", err)
	}
	return sample, nil
}

// GetSamples returns recordings in insertion order.
func (s *SQLiteStorage) GetSamples(ctx context.Context, filter service.SampleFilter) ([]model.RawSample, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `SELECT ` + sampleColumns + sampleJoin
	var args []any

	if filter.SymbolID > 0 {
		query += ` WHERE COALESCE(sa.accepted_symbol_id, sa.symbol_id) = ?`
		args = append(args, filter.SymbolID)
	}
	query += ` ORDER BY sa.id`
	if filter.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query samples: %w", translateError(err))
	}
	defer rows.Close()

	var samples []model.RawSample
	for rows.Next() {
		sample, err := scanSample(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sample: %w", err)
		}
		samples = append(samples, *sample)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating samples: %w", err)
	}
	return samples, nil
}

// CountSamples returns the corpus size.
func (s *SQLiteStorage) CountSamples(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM samples`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count samples: %w", err)
	}
	return n, nil
}

// DeleteSample removes one recording.
func (s *SQLiteStorage) DeleteSample(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM samples WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete sample: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: sample %d", common.ErrNotFound, id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSample(row scanner) (*model.RawSample, error) {
	var (
		sample model.RawSample
		data   string
	)
	if err := row.Scan(&sample.ID, &sample.SymbolID, &sample.AcceptedSymbolID, &sample.Label, &data, &sample.CreatedAt); err != nil {
		return nil, err
	}
	sample.Data = []byte(data)
	return &sample, nil
}
