package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/felixgeelhaar/duet/internal/billing/domain"
	sharedPersistence "github.com/felixgeelhaar/duet/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
)

// SQLiteSubscriptionRepository implements SubscriptionRepository with SQLite.
type SQLiteSubscriptionRepository struct {
	dbConn *sql.DB
}

// NewSQLiteSubscriptionRepository creates a new repository.
func NewSQLiteSubscriptionRepository(dbConn *sql.DB) *SQLiteSubscriptionRepository {
	return &SQLiteSubscriptionRepository{dbConn: dbConn}
}

// getDB returns the appropriate database connection based on context.
func (r *SQLiteSubscriptionRepository) getDB(ctx context.Context) interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
} {
	if info, ok := sharedPersistence.SQLiteTxInfoFromContext(ctx); ok {
		return info.Tx
	}
	return r.dbConn
}

// Upsert inserts or updates a subscription.
func (r *SQLiteSubscriptionRepository) Upsert(ctx context.Context, subscription *domain.Subscription) error {
	db := r.getDB(ctx)
	now := time.Now().UTC().Format(time.RFC3339)

	var currentPeriodEnd sql.NullString
	if subscription.CurrentPeriodEnd != nil {
		currentPeriodEnd = sql.NullString{
			String: subscription.CurrentPeriodEnd.Format(time.RFC3339),
			Valid:  true,
		}
	}

	var partnerID sql.NullString
	if subscription.PartnerID != nil {
		partnerID = sql.NullString{String: subscription.PartnerID.String(), Valid: true}
	}

	createdAt := subscription.CreatedAt.Format(time.RFC3339)
	if subscription.CreatedAt.IsZero() {
		createdAt = now
	}
	updatedAt := subscription.UpdatedAt.Format(time.RFC3339)
	if subscription.UpdatedAt.IsZero() {
		updatedAt = now
	}

	query := `
		INSERT INTO subscriptions (
			id, user_id, plan, status, source, partner_id,
			current_period_end, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			plan = excluded.plan,
			status = excluded.status,
			source = excluded.source,
			partner_id = excluded.partner_id,
			current_period_end = excluded.current_period_end,
			updated_at = excluded.updated_at
	`

	_, err := db.ExecContext(ctx, query,
		subscription.ID.String(),
		subscription.UserID.String(),
		subscription.Plan,
		string(subscription.Status),
		string(subscription.Source),
		partnerID,
		currentPeriodEnd,
		createdAt,
		updatedAt,
	)
	return err
}

// FindByUserID returns the subscription for a user, or nil when absent.
func (r *SQLiteSubscriptionRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.Subscription, error) {
	db := r.getDB(ctx)
	query := `
		SELECT id, user_id, plan, status, source, partner_id,
		       current_period_end, created_at, updated_at
		FROM subscriptions
		WHERE user_id = ?
	`

	var (
		id               string
		uid              string
		plan             string
		status           string
		source           string
		partnerID        sql.NullString
		currentPeriodEnd sql.NullString
		createdAt        string
		updatedAt        string
	)

	err := db.QueryRowContext(ctx, query, userID.String()).Scan(
		&id, &uid, &plan, &status, &source,
		&partnerID, &currentPeriodEnd, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	sub := &domain.Subscription{
		Plan:   plan,
		Status: domain.SubscriptionStatus(status),
		Source: domain.SubscriptionSource(source),
	}
	if sub.ID, err = uuid.Parse(id); err != nil {
		return nil, err
	}
	if sub.UserID, err = uuid.Parse(uid); err != nil {
		return nil, err
	}
	if partnerID.Valid {
		pid, err := uuid.Parse(partnerID.String)
		if err != nil {
			return nil, err
		}
		sub.PartnerID = &pid
	}
	if currentPeriodEnd.Valid {
		t, err := time.Parse(time.RFC3339, currentPeriodEnd.String)
		if err != nil {
			return nil, err
		}
		sub.CurrentPeriodEnd = &t
	}
	if sub.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, err
	}
	if sub.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, err
	}

	return sub, nil
}
