package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/felixgeelhaar/duet/internal/content/domain"
	sharedDomain "github.com/felixgeelhaar/duet/internal/shared/domain"
	sharedPersistence "github.com/felixgeelhaar/duet/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
)

// SQLiteProgressRepository implements ProgressRepository with SQLite.
type SQLiteProgressRepository struct {
	dbConn *sql.DB
}

// NewSQLiteProgressRepository creates a new repository.
func NewSQLiteProgressRepository(dbConn *sql.DB) *SQLiteProgressRepository {
	return &SQLiteProgressRepository{dbConn: dbConn}
}

// getDB returns the appropriate database connection based on context.
func (r *SQLiteProgressRepository) getDB(ctx context.Context) interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
} {
	if info, ok := sharedPersistence.SQLiteTxInfoFromContext(ctx); ok {
		return info.Tx
	}
	return r.dbConn
}

// Find returns recorded progress, or nil when none exists yet.
func (r *SQLiteProgressRepository) Find(ctx context.Context, userID uuid.UUID, categoryID sharedDomain.CategoryID) (*domain.CategoryProgress, error) {
	db := r.getDB(ctx)
	query := `
		SELECT user_id, category_id, unlocked_packs, created_at, updated_at
		FROM category_progress
		WHERE user_id = ? AND category_id = ?
	`

	var (
		uid           string
		cid           string
		unlockedPacks int
		createdAt     string
		updatedAt     string
	)

	err := db.QueryRowContext(ctx, query, userID.String(), categoryID.String()).Scan(
		&uid, &cid, &unlockedPacks, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	progress := &domain.CategoryProgress{
		CategoryID:    sharedDomain.NewCategoryID(cid),
		UnlockedPacks: unlockedPacks,
	}
	if progress.UserID, err = uuid.Parse(uid); err != nil {
		return nil, err
	}
	if progress.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, err
	}
	if progress.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, err
	}

	return progress, nil
}

// Save upserts a progress record.
func (r *SQLiteProgressRepository) Save(ctx context.Context, progress *domain.CategoryProgress) error {
	db := r.getDB(ctx)

	query := `
		INSERT INTO category_progress (
			user_id, category_id, unlocked_packs, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id, category_id) DO UPDATE SET
			unlocked_packs = excluded.unlocked_packs,
			updated_at = excluded.updated_at
	`

	_, err := db.ExecContext(ctx, query,
		progress.UserID.String(),
		progress.CategoryID.String(),
		progress.UnlockedPacks,
		progress.CreatedAt.UTC().Format(time.RFC3339),
		progress.UpdatedAt.UTC().Format(time.RFC3339),
	)
	return err
}
