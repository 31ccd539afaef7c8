package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"taskmint/internal/model"
)

const (
	// snapshotKey identifies "the task list" in the snapshots table.
	// There is exactly one collection per database.
	snapshotKey = "tasks"

	sqliteTimeLayout = time.RFC3339Nano
)

type SQLiteSnapshotStore struct {
	db *sql.DB
}

func NewSQLiteSnapshotStore(db *sql.DB) (*SQLiteSnapshotStore, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	return &SQLiteSnapshotStore{db: db}, nil
}

func OpenSQLite(path string) (*SQLiteSnapshotStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	repo, err := NewSQLiteSnapshotStore(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (s *SQLiteSnapshotStore) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle for migrations.
func (s *SQLiteSnapshotStore) DB() *sql.DB {
	return s.db
}

// Load reads and decodes the persisted collection. A missing key yields
// ErrNotFound; an undecodable payload yields a wrapped decode error.
// The caller decides what either means.
func (s *SQLiteSnapshotStore) Load(ctx context.Context) ([]model.Task, error) {
	row := s.db.QueryRowContext(ctx, `SELECT payload FROM snapshots WHERE key = ?`, snapshotKey)

	var payload []byte
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var tasks []model.Task
	if err := json.Unmarshal(payload, &tasks); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return tasks, nil
}

// Save serializes the full collection and replaces the stored value.
func (s *SQLiteSnapshotStore) Save(ctx context.Context, tasks []model.Task) error {
	if tasks == nil {
		tasks = []model.Task{}
	}
	payload, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (key, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		snapshotKey, payload, time.Now().UTC().Format(sqliteTimeLayout),
	)
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}
