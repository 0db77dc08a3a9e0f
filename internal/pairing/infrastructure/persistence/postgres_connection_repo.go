package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/felixgeelhaar/duet/internal/pairing/domain"
	sharedDomain "github.com/felixgeelhaar/duet/internal/shared/domain"
	sharedPersistence "github.com/felixgeelhaar/duet/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresConnectionRepository implements ConnectionRepository using PostgreSQL.
type PostgresConnectionRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresConnectionRepository creates a new PostgreSQL connection repository.
func NewPostgresConnectionRepository(pool *pgxpool.Pool) *PostgresConnectionRepository {
	return &PostgresConnectionRepository{pool: pool}
}

// Save persists both sides of a connection atomically. The UNIQUE
// constraint on user_id enforces at most one partner per user.
func (r *PostgresConnectionRepository) Save(ctx context.Context, conn *domain.Connection) error {
	if info, ok := sharedPersistence.TxInfoFromContext(ctx); ok {
		return r.saveWithTx(ctx, info.Tx, conn)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := r.saveWithTx(ctx, tx, conn); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PostgresConnectionRepository) saveWithTx(ctx context.Context, tx pgx.Tx, conn *domain.Connection) error {
	query := `
		INSERT INTO pairing_connections (id, user_id, partner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO NOTHING
	`

	mirror := conn.Mirror()
	for _, side := range []*domain.Connection{conn, mirror} {
		_, err := tx.Exec(ctx, query,
			side.ID(),
			side.UserID(),
			side.PartnerID(),
			side.CreatedAt(),
			side.UpdatedAt(),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// FindByUserID returns the user's connection, or nil when unpaired.
func (r *PostgresConnectionRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.Connection, error) {
	query := `
		SELECT id, user_id, partner_id, created_at, updated_at
		FROM pairing_connections
		WHERE user_id = $1
	`

	var (
		id        uuid.UUID
		uid       uuid.UUID
		partnerID uuid.UUID
		createdAt time.Time
		updatedAt time.Time
	)

	err := sharedPersistence.Executor(ctx, r.pool).QueryRow(ctx, query, userID).Scan(&id, &uid, &partnerID, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	entity := sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt)
	return domain.RehydrateConnection(entity, uid, partnerID), nil
}
