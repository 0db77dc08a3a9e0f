package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/felixgeelhaar/duet/internal/pairing/domain"
	sharedDomain "github.com/felixgeelhaar/duet/internal/shared/domain"
	sharedPersistence "github.com/felixgeelhaar/duet/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
)

// SQLiteConnectionRepository implements ConnectionRepository using SQLite.
type SQLiteConnectionRepository struct {
	dbConn *sql.DB
}

// NewSQLiteConnectionRepository creates a new SQLite connection repository.
func NewSQLiteConnectionRepository(dbConn *sql.DB) *SQLiteConnectionRepository {
	return &SQLiteConnectionRepository{dbConn: dbConn}
}

type sqliteQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// getDB returns the context's transaction when one is open, so reads
// inside a unit of work observe its snapshot.
func (r *SQLiteConnectionRepository) getDB(ctx context.Context) sqliteQuerier {
	if info, ok := sharedPersistence.SQLiteTxInfoFromContext(ctx); ok {
		return info.Tx
	}
	return r.dbConn
}

// Save persists both sides of a connection atomically.
func (r *SQLiteConnectionRepository) Save(ctx context.Context, conn *domain.Connection) error {
	if info, ok := sharedPersistence.SQLiteTxInfoFromContext(ctx); ok {
		return r.saveWithTx(ctx, info.Tx, conn)
	}

	tx, err := r.dbConn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := r.saveWithTx(ctx, tx, conn); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *SQLiteConnectionRepository) saveWithTx(ctx context.Context, tx *sql.Tx, conn *domain.Connection) error {
	query := `
		INSERT INTO pairing_connections (id, user_id, partner_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO NOTHING
	`

	mirror := conn.Mirror()
	for _, side := range []*domain.Connection{conn, mirror} {
		_, err := tx.ExecContext(ctx, query,
			side.ID().String(),
			side.UserID().String(),
			side.PartnerID().String(),
			side.CreatedAt().Format(time.RFC3339),
			side.UpdatedAt().Format(time.RFC3339),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// FindByUserID returns the user's connection, or nil when unpaired.
func (r *SQLiteConnectionRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.Connection, error) {
	query := `
		SELECT id, user_id, partner_id, created_at, updated_at
		FROM pairing_connections
		WHERE user_id = ?
	`

	var (
		id        string
		uid       string
		partnerID string
		createdAt string
		updatedAt string
	)

	err := r.getDB(ctx).QueryRowContext(ctx, query, userID.String()).Scan(&id, &uid, &partnerID, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	connID, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	parsedUserID, err := uuid.Parse(uid)
	if err != nil {
		return nil, err
	}
	parsedPartnerID, err := uuid.Parse(partnerID)
	if err != nil {
		return nil, err
	}
	created, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, err
	}
	updated, err := time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return nil, err
	}

	entity := sharedDomain.RehydrateBaseEntity(connID, created, updated)
	return domain.RehydrateConnection(entity, parsedUserID, parsedPartnerID), nil
}
