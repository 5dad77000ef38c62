package cache

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLite is the on-disk Store. One database file holds one payload row
// per category, so snapshots survive process restarts and can be shared
// by CLI invocations.
type SQLite struct {
	db     *sql.DB
	dbPath string
}

// SQLiteOptions configures the on-disk store.
type SQLiteOptions struct {
	// CreateIfNotExists creates the directory and database file when
	// they do not exist yet.
	CreateIfNotExists bool

	// EnableWAL enables write-ahead logging for better concurrent
	// read performance.
	EnableWAL bool
}

// DefaultSQLiteOptions returns the options used by the CLI.
func DefaultSQLiteOptions() SQLiteOptions {
	return SQLiteOptions{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// OpenSQLite opens or creates the cache database under dir.
func OpenSQLite(dir string, opts SQLiteOptions) (*SQLite, error) {
	dbPath := filepath.Join(dir, "psmap.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("cache database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("check cache database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
	}

	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}

	// SQLite supports a single writer; one pooled connection avoids
	// SQLITE_BUSY on concurrent publishes.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &SQLite{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create cache schema: %w", err)
	}
	return s, nil
}

// Path returns the database file location.
func (s *SQLite) Path() string { return s.dbPath }

// Close closes the database connection.
func (s *SQLite) Close() error { return s.db.Close() }

func (s *SQLite) createTables() error {
	schema := `
	-- One payload snapshot per category. Timestamps are RFC3339 strings
	-- written by this process, so no format guessing is needed on read.
	CREATE TABLE IF NOT EXISTS dataset_cache (
		category   TEXT PRIMARY KEY,
		source     TEXT NOT NULL,
		fetched_at TEXT NOT NULL,
		expires_at TEXT,
		payload    BLOB NOT NULL
	);
	`
	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// Get returns the entry for a category, or (nil, nil) when the row is
// absent or expired. Expired rows are dropped lazily.
func (s *SQLite) Get(ctx context.Context, category string) (*Entry, error) {
	query := `
	SELECT source, fetched_at, expires_at, payload
	FROM dataset_cache
	WHERE category = ?
	`

	var (
		entry     = Entry{Category: category}
		fetchedAt string
		expiresAt sql.NullString
	)
	err := s.db.QueryRowContext(ctx, query, category).Scan(
		&entry.Source,
		&fetchedAt,
		&expiresAt,
		&entry.Payload,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cache entry: %w", err)
	}

	entry.FetchedAt, err = time.Parse(time.RFC3339Nano, fetchedAt)
	if err != nil {
		return nil, fmt.Errorf("parse cached fetch time: %w", err)
	}

	if expiresAt.Valid && expiresAt.String != "" {
		exp, err := time.Parse(time.RFC3339Nano, expiresAt.String)
		if err != nil {
			return nil, fmt.Errorf("parse cached expiry: %w", err)
		}
		if time.Now().After(exp) {
			_ = s.Delete(ctx, category)
			return nil, nil
		}
	}
	return &entry, nil
}

// Set publishes an entry, replacing any previous row for the category.
func (s *SQLite) Set(ctx context.Context, entry *Entry, ttl time.Duration) error {
	var expiresAt any
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl).Format(time.RFC3339Nano)
	}

	query := `
	INSERT INTO dataset_cache (category, source, fetched_at, expires_at, payload)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(category) DO UPDATE SET
		source     = excluded.source,
		fetched_at = excluded.fetched_at,
		expires_at = excluded.expires_at,
		payload    = excluded.payload
	`

	_, err := s.db.ExecContext(ctx, query,
		entry.Category,
		entry.Source,
		entry.FetchedAt.Format(time.RFC3339Nano),
		expiresAt,
		entry.Payload,
	)
	if err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

// Delete removes a category's row.
func (s *SQLite) Delete(ctx context.Context, category string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM dataset_cache WHERE category = ?", category); err != nil {
		return fmt.Errorf("delete cache entry: %w", err)
	}
	return nil
}
