package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/felixgeelhaar/duet/internal/shared/infrastructure/security"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// NewSQLiteDB opens a SQLite database at the given path, creating the
// parent directory if needed.
//
// Pragmas:
//   - journal_mode=WAL: Write-Ahead Logging for better concurrency
//   - foreign_keys=ON: Enforce foreign key constraints
//   - busy_timeout=5000: Wait 5s on lock instead of failing immediately
//   - synchronous=NORMAL: Good balance of safety and speed
func NewSQLiteDB(ctx context.Context, path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("SQLite path is required")
	}

	if path != ":memory:" {
		validated, err := security.ValidateFilePath(path)
		if err != nil {
			return nil, fmt.Errorf("invalid SQLite path: %w", err)
		}
		path = validated
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := path
	if strings.Contains(dsn, "?") {
		dsn += "&"
	} else {
		dsn += "?"
	}
	dsn += "_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// SQLite doesn't support multiple writers, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	return db, nil
}
