package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"pomobar/internal/core/model"
)

const historyFileName = "history.db"

const historySchema = `
	CREATE TABLE IF NOT EXISTS phase_history (
		id TEXT PRIMARY KEY,
		interval_index INTEGER NOT NULL,
		phase TEXT NOT NULL,
		seconds INTEGER NOT NULL,
		finished_at TEXT NOT NULL
	)
`

// HistoryStore keeps a log of completed work and break phases.
type HistoryStore struct {
	db *sql.DB
}

// OpenHistory opens (and creates if needed) the SQLite history database.
func OpenHistory(path string) (*HistoryStore, error) {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("%s?_busy_timeout=5000", path)
	database, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	database.SetMaxOpenConns(1)
	database.SetMaxIdleConns(1)
	database.SetConnMaxLifetime(0)

	if err := database.Ping(); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("ping history: %w", err)
	}
	if _, err := database.Exec(historySchema); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("create phase_history: %w", err)
	}

	return &HistoryStore{db: database}, nil
}

// HistoryPath resolves the history database next to the settings file.
func HistoryPath(settingsPath string) string {
	return filepath.Join(filepath.Dir(settingsPath), historyFileName)
}

// Record stores one completed phase.
func (store *HistoryStore) Record(ctx context.Context, record model.PhaseRecord) error {
	const query = `
		INSERT INTO phase_history (id, interval_index, phase, seconds, finished_at)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := store.db.ExecContext(ctx, query,
		uuid.NewString(),
		record.IntervalIndex,
		string(record.Kind),
		record.Seconds,
		record.FinishedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert phase record: %w", err)
	}
	return nil
}

// CountSince returns how many phases of a kind finished at or after since.
func (store *HistoryStore) CountSince(ctx context.Context, kind model.PhaseKind, since time.Time) (int, error) {
	const query = `
		SELECT COUNT(*) FROM phase_history
		WHERE phase = ? AND finished_at >= ?
	`
	var count int
	err := store.db.QueryRowContext(ctx, query, string(kind), since.UTC().Format(time.RFC3339)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count phase records: %w", err)
	}
	return count, nil
}

// Close closes the database connection.
func (store *HistoryStore) Close() error {
	return store.db.Close()
}
