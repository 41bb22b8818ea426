package filestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS ephemeral_files (
	id           TEXT PRIMARY KEY,
	client_id    TEXT NOT NULL,
	filename     TEXT NOT NULL,
	content_type TEXT NOT NULL,
	size         INTEGER NOT NULL,
	data         BLOB NOT NULL,
	created_at   TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_ephemeral_files_client ON ephemeral_files (client_id);
CREATE INDEX IF NOT EXISTS idx_ephemeral_files_created ON ephemeral_files (created_at);
`

// SQLiteBackend stores blobs in a local SQLite file so they survive process
// restarts between the draft being saved and the surprise being committed.
type SQLiteBackend struct {
	db       *sql.DB
	maxBytes int64
	logger   *zap.Logger
}

func NewSQLiteBackend(path string, maxBytesPerClient int64, logger *zap.Logger) (*SQLiteBackend, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create filestore directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open filestore: %w", err)
	}
	// Serialize writers; SQLite allows only one at a time anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create filestore schema: %w", err)
	}

	return &SQLiteBackend{
		db:       db,
		maxBytes: maxBytesPerClient,
		logger:   logger.Named("SQLiteFileStore"),
	}, nil
}

func (s *SQLiteBackend) ForClient(clientID string) Store {
	return &sqliteStore{backend: s, clientID: clientID}
}

func (s *SQLiteBackend) Sweep(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM ephemeral_files WHERE created_at < ?`, olderThan.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to sweep ephemeral files: %w", err)
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		s.logger.Info("Swept expired ephemeral files", zap.Int64("removed", n))
	}
	return n, nil
}

func (s *SQLiteBackend) Close() error {
	return s.db.Close()
}

type sqliteStore struct {
	backend  *SQLiteBackend
	clientID string
}

func (s *sqliteStore) Save(ctx context.Context, b Blob) (string, error) {
	db := s.backend.db

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var used int64
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(size), 0) FROM ephemeral_files WHERE client_id = ?`,
		s.clientID,
	).Scan(&used); err != nil {
		return "", fmt.Errorf("failed to compute usage: %w", err)
	}

	if limit := s.backend.maxBytes; limit > 0 && used+b.Size() > limit {
		return "", fmt.Errorf("%w: %d of %d bytes in use", ErrStorageFull, used, limit)
	}

	id := uuid.NewString()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO ephemeral_files (id, client_id, filename, content_type, size, data, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, id, s.clientID, b.Filename, b.ContentType, b.Size(), b.Data, time.Now().UTC()); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit file: %w", err)
	}
	return id, nil
}

func (s *sqliteStore) Get(ctx context.Context, id string) (*Blob, error) {
	var b Blob
	err := s.backend.db.QueryRowContext(ctx, `
		SELECT id, filename, content_type, data, created_at
		FROM ephemeral_files
		WHERE id = ? AND client_id = ?
	`, id, s.clientID).Scan(&b.ID, &b.Filename, &b.ContentType, &b.Data, &b.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get file: %w", err)
	}
	return &b, nil
}

func (s *sqliteStore) Delete(ctx context.Context, id string) error {
	_, err := s.backend.db.ExecContext(ctx,
		`DELETE FROM ephemeral_files WHERE id = ? AND client_id = ?`, id, s.clientID)
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *sqliteStore) ClearAll(ctx context.Context) error {
	_, err := s.backend.db.ExecContext(ctx,
		`DELETE FROM ephemeral_files WHERE client_id = ?`, s.clientID)
	if err != nil {
		return fmt.Errorf("failed to clear files: %w", err)
	}
	return nil
}
