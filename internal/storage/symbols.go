package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/inkwell/internal/common"
	"github.com/Veraticus/inkwell/internal/model"
)

// CreateSymbol inserts a new symbol. An existing label yields common.ErrDuplicateEntry.
func (s *SQLiteStorage) CreateSymbol(ctx context.Context, label string) (*model.Symbol, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(label, "label"); err != nil {
		return nil, err
	}
	return createSymbol(ctx, s.db, label)
}

func createSymbol(ctx context.Context, q querier, label string) (*model.Symbol, error) {
	label = strings.TrimSpace(label)

	result, err := q.ExecContext(ctx, `INSERT INTO symbols (label) VALUES (?)`, label)
	if err != nil {
		return nil, fmt.Errorf("failed to create symbol %q: %w", label, translateError(err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get symbol id: %w", err)
	}

	return getSymbol(ctx, q, id)
}

// GetSymbol returns a symbol by id.
func (s *SQLiteStorage) GetSymbol(ctx context.Context, id int64) (*model.Symbol, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id, "id"); err != nil {
		return nil, err
	}
	return getSymbol(ctx, s.db, id)
}

func getSymbol(ctx context.Context, q querier, id int64) (*model.Symbol, error) {
	var sym model.Symbol
	err := q.QueryRowContext(ctx,
		`SELECT id, label, created_at FROM symbols WHERE id = ?`, id,
	).Scan(&sym.ID, &sym.Label, &sym.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: symbol %d", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query symbol: %w", err)
	}
	return &sym, nil
}

// GetSymbolByLabel returns a symbol by its label.
func (s *SQLiteStorage) GetSymbolByLabel(ctx context.Context, label string) (*model.Symbol, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(label, "label"); err != nil {
		return nil, err
	}
	return getSymbolByLabel(ctx, s.db, label)
}

func getSymbolByLabel(ctx context.Context, q querier, label string) (*model.Symbol, error) {
	label = strings.TrimSpace(label)

	var sym model.Symbol
	err := q.QueryRowContext(ctx,
		`SELECT id, label, created_at FROM symbols WHERE label = ?`, label,
	).Scan(&sym.ID, &sym.Label, &sym.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: symbol %q", common.ErrNotFound, label)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query symbol: %w", err)
	}
	return &sym, nil
}

// GetSymbols returns all symbols ordered by label.
func (s *SQLiteStorage) GetSymbols(ctx context.Context) ([]model.Symbol, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, label, created_at FROM symbols ORDER BY label`)
	if err != nil {
		return nil, fmt.Errorf("failed to query symbols: %w", err)
	}
	defer rows.Close()

	var symbols []model.Symbol
	for rows.Next() {
		var sym model.Symbol
		if err := rows.Scan(&sym.ID, &sym.Label, &sym.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan symbol: %w", err)
		}
		symbols = append(symbols, sym)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating symbols: %w", err)
	}

	slog.Debug("retrieved symbols", "count", len(symbols))
	return symbols, nil
}

// GetSymbolCounts returns every symbol with the number of samples whose
// accepted symbol it is, most frequent first.
func (s *SQLiteStorage) GetSymbolCounts(ctx context.Context) ([]model.SymbolCount, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT sy.id, sy.label, sy.created_at, COUNT(sa.id) AS n
		FROM symbols sy
		LEFT JOIN samples sa ON COALESCE(sa.accepted_symbol_id, sa.symbol_id) = sy.id
		GROUP BY sy.id
		ORDER BY n DESC, sy.label`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query symbol counts: %w", err)
	}
	defer rows.Close()

	var counts []model.SymbolCount
	for rows.Next() {
		var c model.SymbolCount
		if err := rows.Scan(&c.Symbol.ID, &c.Symbol.Label, &c.Symbol.CreatedAt, &c.Samples); err != nil {
			return nil, fmt.Errorf("failed to scan symbol count: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating symbol counts: %w", err)
	}
	return counts, nil
}

// DeleteSymbol removes a symbol together with its samples.
func (s *SQLiteStorage) DeleteSymbol(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(id, "id"); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", translateError(err))
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM samples WHERE symbol_id = ? OR accepted_symbol_id = ?`, id, id); err != nil {
		return fmt.Errorf("failed to delete samples: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM symbols WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete symbol: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: symbol %d", common.ErrNotFound, id)
	}

	return tx.Commit()
}
