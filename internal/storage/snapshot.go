package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// maxAutoSnapshots bounds how many automatic snapshots are retained.
const maxAutoSnapshots = 5

// Snapshot errors.
var (
	ErrSnapshotNotFound  = errors.New("snapshot not found")
	ErrSnapshotCorrupted = errors.New("snapshot integrity check failed")
	ErrSnapshotExists    = errors.New("snapshot already exists")
	ErrInvalidTag        = errors.New("invalid snapshot tag")
	ErrInMemoryDatabase  = errors.New("in-memory databases cannot be snapshotted")
)

// SnapshotInfo describes one saved copy of the corpus database.
type SnapshotInfo struct {
	CreatedAt      time.Time `json:"created_at"`
	ID             string    `json:"id"`
	Description    string    `json:"description"`
	FileSize       int64     `json:"file_size"`
	Symbols        int       `json:"symbols"`
	Samples        int       `json:"samples"`
	ValidationRuns int       `json:"validation_runs"`
	SchemaVersion  int       `json:"schema_version"`
	IsAuto         bool      `json:"is_auto"`
}

// SnapshotManager copies the corpus database to and from a snapshots
// directory next to it.
type SnapshotManager struct {
	store *SQLiteStorage
	dir   string
}

// NewSnapshotManager prepares the snapshots directory for a file-backed store.
func NewSnapshotManager(store *SQLiteStorage) (*SnapshotManager, error) {
	if store.dbPath == ":memory:" {
		return nil, ErrInMemoryDatabase
	}

	abs, err := filepath.Abs(store.dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve database path: %w", err)
	}

	dir := filepath.Join(filepath.Dir(abs), "snapshots")
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create snapshots directory: %w", err)
	}

	return &SnapshotManager{store: store, dir: dir}, nil
}

// Dir returns the directory snapshots are written to.
func (m *SnapshotManager) Dir() string {
	return m.dir
}

// Create writes a consistent copy of the database under the given tag. An
// empty tag is replaced with a timestamped one.
func (m *SnapshotManager) Create(ctx context.Context, tag, description string) (*SnapshotInfo, error) {
	return m.create(ctx, tag, description, false)
}

// Auto takes a snapshot before a bulk operation and prunes old automatic ones.
func (m *SnapshotManager) Auto(ctx context.Context, operation string) (*SnapshotInfo, error) {
	tag := fmt.Sprintf("auto-%s-%s", operation, time.Now().Format("20060102-150405.000"))
	info, err := m.create(ctx, tag, "Automatic snapshot before "+operation, true)
	if err != nil {
		return nil, fmt.Errorf("failed to create automatic snapshot: %w", err)
	}

	if err := m.prune(ctx); err != nil {
		slog.Warn("failed to prune automatic snapshots", "error", err)
	}
	return info, nil
}

func (m *SnapshotManager) create(ctx context.Context, tag, description string, auto bool) (*SnapshotInfo, error) {
	if tag == "" {
		tag = "snapshot-" + time.Now().Format("2006-01-02-1504")
	}
	if err := validateTag(tag); err != nil {
		return nil, err
	}

	dbFile := m.dataPath(tag)
	if _, err := os.Stat(dbFile); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotExists, tag)
	}

	version, err := m.store.SchemaVersion(ctx)
	if err != nil {
		return nil, err
	}

	info := SnapshotInfo{
		ID:            tag,
		CreatedAt:     time.Now(),
		Description:   description,
		SchemaVersion: version,
		IsAuto:        auto,
	}
	m.countRows(ctx, &info)

	// VACUUM INTO takes a string literal, so quotes are escaped rather than bound.
	query := fmt.Sprintf("VACUUM INTO '%s'", strings.ReplaceAll(dbFile, "'", "''"))
	if _, err := m.store.db.ExecContext(ctx, query); err != nil {
		return nil, fmt.Errorf("failed to write snapshot: %w", translateError(err))
	}

	stat, err := os.Stat(dbFile)
	if err != nil {
		return nil, fmt.Errorf("failed to stat snapshot: %w", err)
	}
	info.FileSize = stat.Size()

	if err := writeJSONAtomic(m.metaPath(tag), info); err != nil {
		if rmErr := os.Remove(dbFile); rmErr != nil {
			slog.Error("failed to remove snapshot after metadata failure", "error", rmErr)
		}
		return nil, fmt.Errorf("failed to save snapshot metadata: %w", err)
	}

	slog.Debug("created snapshot", "id", tag, "samples", info.Samples, "auto", auto)
	return &info, nil
}

func (m *SnapshotManager) countRows(ctx context.Context, info *SnapshotInfo) {
	counts := []struct {
		dest  *int
		query string
	}{
		{&info.Symbols, "SELECT COUNT(*) FROM symbols"},
		{&info.Samples, "SELECT COUNT(*) FROM samples"},
		{&info.ValidationRuns, "SELECT COUNT(*) FROM validation_runs"},
	}
	for _, c := range counts {
		// Older schemas may lack a table; the count stays zero.
		if err := m.store.db.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			*c.dest = 0
		}
	}
}

// List returns all snapshots, newest first.
func (m *SnapshotManager) List(_ context.Context) ([]SnapshotInfo, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshots directory: %w", err)
	}

	snapshots := make([]SnapshotInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		info, err := readInfo(filepath.Join(m.dir, entry.Name()))
		if err != nil {
			slog.Debug("skipping unreadable snapshot metadata", "file", entry.Name(), "error", err)
			continue
		}
		snapshots = append(snapshots, *info)
	}

	sort.SliceStable(snapshots, func(i, j int) bool {
		return snapshots[i].CreatedAt.After(snapshots[j].CreatedAt)
	})
	return snapshots, nil
}

// Get returns the metadata of one snapshot.
func (m *SnapshotManager) Get(_ context.Context, id string) (*SnapshotInfo, error) {
	if err := validateTag(id); err != nil {
		return nil, err
	}
	info, err := readInfo(m.metaPath(id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
	}
	return info, err
}

// Restore replaces the live database with a snapshot and reopens the
// connection. The replaced file is kept until the copy succeeds.
func (m *SnapshotManager) Restore(ctx context.Context, id string) error {
	if _, err := m.Get(ctx, id); err != nil {
		return err
	}

	src := m.dataPath(id)
	if err := verifyIntegrity(src); err != nil {
		return fmt.Errorf("%w: %w", ErrSnapshotCorrupted, err)
	}

	dbPath := m.store.dbPath
	if err := m.store.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	backup := dbPath + ".restore-backup"
	if err := copyFile(dbPath, backup); err != nil {
		return m.reopen(fmt.Errorf("failed to back up current database: %w", err))
	}

	// Stale WAL files would be replayed over the restored copy.
	for _, suffix := range []string{"-wal", "-shm"} {
		if err := os.Remove(dbPath + suffix); err != nil && !errors.Is(err, os.ErrNotExist) {
			slog.Warn("failed to remove journal file", "file", dbPath+suffix, "error", err)
		}
	}

	if err := copyFile(src, dbPath); err != nil {
		if restoreErr := copyFile(backup, dbPath); restoreErr != nil {
			slog.Error("failed to put original database back", "error", restoreErr)
		}
		return m.reopen(fmt.Errorf("failed to restore snapshot: %w", err))
	}

	if err := os.Remove(backup); err != nil {
		slog.Warn("failed to remove restore backup", "error", err)
	}

	slog.Info("restored snapshot", "id", id)
	return m.reopen(nil)
}

// reopen reconnects the store and returns cause unless reconnecting fails.
func (m *SnapshotManager) reopen(cause error) error {
	db, err := openDB(m.store.dbPath)
	if err != nil {
		return errors.Join(cause, fmt.Errorf("failed to reopen database: %w", err))
	}
	m.store.db = db
	return cause
}

// Delete removes a snapshot and its metadata.
func (m *SnapshotManager) Delete(_ context.Context, id string) error {
	if err := validateTag(id); err != nil {
		return err
	}

	if err := os.Remove(m.dataPath(id)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
		}
		return fmt.Errorf("failed to remove snapshot: %w", err)
	}
	if err := os.Remove(m.metaPath(id)); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Debug("failed to remove snapshot metadata", "id", id, "error", err)
	}
	return nil
}

func (m *SnapshotManager) prune(ctx context.Context) error {
	snapshots, err := m.List(ctx)
	if err != nil {
		return err
	}

	kept := 0
	for _, s := range snapshots {
		if !s.IsAuto {
			continue
		}
		kept++
		if kept <= maxAutoSnapshots {
			continue
		}
		if err := m.Delete(ctx, s.ID); err != nil {
			slog.Debug("failed to delete old automatic snapshot", "id", s.ID, "error", err)
		}
	}
	return nil
}

func (m *SnapshotManager) dataPath(id string) string {
	return filepath.Join(m.dir, id+".db")
}

func (m *SnapshotManager) metaPath(id string) string {
	return filepath.Join(m.dir, id+".json")
}

func validateTag(tag string) error {
	if strings.TrimSpace(tag) == "" || strings.ContainsAny(tag, `/\'"`) || strings.Contains(tag, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidTag, tag)
	}
	return nil
}

func readInfo(path string) (*SnapshotInfo, error) {
	// #nosec G304 - path is built from a validated tag
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var info SnapshotInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func writeJSONAtomic(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func verifyIntegrity(path string) error {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	var result string
	if err := db.QueryRow("PRAGMA integrity_check").Scan(&result); err != nil {
		return err
	}
	if result != "ok" {
		return fmt.Errorf("integrity check returned %q", result)
	}
	return nil
}

func copyFile(src, dst string) error {
	// #nosec G304 - paths come from the manager, not user input
	in, err := os.Open(filepath.Clean(src))
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	tmp := dst + ".tmp"
	// #nosec G304
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dst)
}
