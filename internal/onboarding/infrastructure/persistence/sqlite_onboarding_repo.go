package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/felixgeelhaar/duet/internal/onboarding/domain"
	sharedPersistence "github.com/felixgeelhaar/duet/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
)

type sqliteExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func sqliteDB(ctx context.Context, dbConn *sql.DB) sqliteExecutor {
	if info, ok := sharedPersistence.SQLiteTxInfoFromContext(ctx); ok {
		return info.Tx
	}
	return dbConn
}

// SQLiteAnswerRepository implements AnswerRepository with SQLite.
type SQLiteAnswerRepository struct {
	dbConn *sql.DB
}

// NewSQLiteAnswerRepository creates a new repository.
func NewSQLiteAnswerRepository(dbConn *sql.DB) *SQLiteAnswerRepository {
	return &SQLiteAnswerRepository{dbConn: dbConn}
}

// Save upserts one answer, keyed by user and step.
func (r *SQLiteAnswerRepository) Save(ctx context.Context, answer *domain.Answer) error {
	db := sqliteDB(ctx, r.dbConn)
	query := `
		INSERT INTO onboarding_answers (user_id, step, answer, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, step) DO UPDATE SET
			answer = excluded.answer,
			updated_at = excluded.updated_at
	`
	_, err := db.ExecContext(ctx, query,
		answer.UserID.String(),
		string(answer.Step),
		answer.Value,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// FindByUserID returns all recorded answers for a user.
func (r *SQLiteAnswerRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Answer, error) {
	db := sqliteDB(ctx, r.dbConn)
	query := `
		SELECT user_id, step, answer, updated_at
		FROM onboarding_answers
		WHERE user_id = ?
	`

	rows, err := db.QueryContext(ctx, query, userID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var answers []domain.Answer
	for rows.Next() {
		var (
			uid       string
			step      string
			value     string
			updatedAt string
		)
		if err := rows.Scan(&uid, &step, &value, &updatedAt); err != nil {
			return nil, err
		}

		answer := domain.Answer{Step: domain.Step(step), Value: value}
		if answer.UserID, err = uuid.Parse(uid); err != nil {
			return nil, err
		}
		if answer.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
			return nil, err
		}
		answers = append(answers, answer)
	}
	return answers, rows.Err()
}

// SQLiteProfileRepository implements ProfileRepository with SQLite.
type SQLiteProfileRepository struct {
	dbConn *sql.DB
}

// NewSQLiteProfileRepository creates a new repository.
func NewSQLiteProfileRepository(dbConn *sql.DB) *SQLiteProfileRepository {
	return &SQLiteProfileRepository{dbConn: dbConn}
}

// Save upserts the profile.
func (r *SQLiteProfileRepository) Save(ctx context.Context, profile *domain.Profile) error {
	db := sqliteDB(ctx, r.dbConn)
	query := `
		INSERT INTO onboarding_profiles (user_id, in_progress, current_step, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			in_progress = excluded.in_progress,
			current_step = excluded.current_step,
			updated_at = excluded.updated_at
	`

	inProgress := 0
	if profile.InProgress {
		inProgress = 1
	}
	_, err := db.ExecContext(ctx, query,
		profile.UserID.String(),
		inProgress,
		string(profile.CurrentStep),
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// FindByUserID returns the profile, or nil when absent.
func (r *SQLiteProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	db := sqliteDB(ctx, r.dbConn)
	query := `
		SELECT user_id, in_progress, current_step, updated_at
		FROM onboarding_profiles
		WHERE user_id = ?
	`

	var (
		uid         string
		inProgress  int
		currentStep string
		updatedAt   string
	)
	err := db.QueryRowContext(ctx, query, userID.String()).Scan(
		&uid, &inProgress, &currentStep, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	profile := &domain.Profile{
		InProgress:  inProgress != 0,
		CurrentStep: domain.Step(currentStep),
	}
	if profile.UserID, err = uuid.Parse(uid); err != nil {
		return nil, err
	}
	if profile.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, err
	}
	return profile, nil
}
