package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/felixgeelhaar/duet/internal/billing/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSubscriptionRepository implements SubscriptionRepository with PostgreSQL.
type PostgresSubscriptionRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresSubscriptionRepository creates a new repository.
func NewPostgresSubscriptionRepository(pool *pgxpool.Pool) *PostgresSubscriptionRepository {
	return &PostgresSubscriptionRepository{pool: pool}
}

// Upsert inserts or updates a subscription.
func (r *PostgresSubscriptionRepository) Upsert(ctx context.Context, subscription *domain.Subscription) error {
	query := `
		INSERT INTO subscriptions (
			id, user_id, plan, status, source, partner_id,
			current_period_end, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id) DO UPDATE SET
			plan = EXCLUDED.plan,
			status = EXCLUDED.status,
			source = EXCLUDED.source,
			partner_id = EXCLUDED.partner_id,
			current_period_end = EXCLUDED.current_period_end,
			updated_at = NOW()
	`
	_, err := r.pool.Exec(ctx, query,
		subscription.ID,
		subscription.UserID,
		subscription.Plan,
		string(subscription.Status),
		string(subscription.Source),
		subscription.PartnerID,
		subscription.CurrentPeriodEnd,
		subscription.CreatedAt,
		subscription.UpdatedAt,
	)
	return err
}

// FindByUserID returns the subscription for a user, or nil when absent.
func (r *PostgresSubscriptionRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.Subscription, error) {
	query := `
		SELECT id, user_id, plan, status, source, partner_id,
		       current_period_end, created_at, updated_at
		FROM subscriptions
		WHERE user_id = $1
	`
	var row struct {
		id               uuid.UUID
		userID           uuid.UUID
		plan             string
		status           string
		source           string
		partnerID        *uuid.UUID
		currentPeriodEnd *time.Time
		createdAt        time.Time
		updatedAt        time.Time
	}

	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&row.id,
		&row.userID,
		&row.plan,
		&row.status,
		&row.source,
		&row.partnerID,
		&row.currentPeriodEnd,
		&row.createdAt,
		&row.updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &domain.Subscription{
		ID:               row.id,
		UserID:           row.userID,
		Plan:             row.plan,
		Status:           domain.SubscriptionStatus(row.status),
		Source:           domain.SubscriptionSource(row.source),
		PartnerID:        row.partnerID,
		CurrentPeriodEnd: row.currentPeriodEnd,
		CreatedAt:        row.createdAt,
		UpdatedAt:        row.updatedAt,
	}, nil
}
