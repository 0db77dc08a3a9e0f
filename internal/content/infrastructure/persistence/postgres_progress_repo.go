package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/felixgeelhaar/duet/internal/content/domain"
	sharedDomain "github.com/felixgeelhaar/duet/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresProgressRepository implements ProgressRepository with PostgreSQL.
type PostgresProgressRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresProgressRepository creates a new repository.
func NewPostgresProgressRepository(pool *pgxpool.Pool) *PostgresProgressRepository {
	return &PostgresProgressRepository{pool: pool}
}

// Find returns recorded progress, or nil when none exists yet.
func (r *PostgresProgressRepository) Find(ctx context.Context, userID uuid.UUID, categoryID sharedDomain.CategoryID) (*domain.CategoryProgress, error) {
	query := `
		SELECT user_id, category_id, unlocked_packs, created_at, updated_at
		FROM category_progress
		WHERE user_id = $1 AND category_id = $2
	`
	var row struct {
		userID        uuid.UUID
		categoryID    string
		unlockedPacks int
		createdAt     time.Time
		updatedAt     time.Time
	}

	err := r.pool.QueryRow(ctx, query, userID, categoryID.String()).Scan(
		&row.userID,
		&row.categoryID,
		&row.unlockedPacks,
		&row.createdAt,
		&row.updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &domain.CategoryProgress{
		UserID:        row.userID,
		CategoryID:    sharedDomain.NewCategoryID(row.categoryID),
		UnlockedPacks: row.unlockedPacks,
		CreatedAt:     row.createdAt,
		UpdatedAt:     row.updatedAt,
	}, nil
}

// Save upserts a progress record.
func (r *PostgresProgressRepository) Save(ctx context.Context, progress *domain.CategoryProgress) error {
	query := `
		INSERT INTO category_progress (
			user_id, category_id, unlocked_packs, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, category_id) DO UPDATE SET
			unlocked_packs = EXCLUDED.unlocked_packs,
			updated_at = NOW()
	`
	_, err := r.pool.Exec(ctx, query,
		progress.UserID,
		progress.CategoryID.String(),
		progress.UnlockedPacks,
		progress.CreatedAt,
		progress.UpdatedAt,
	)
	return err
}
