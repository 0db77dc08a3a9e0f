package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/felixgeelhaar/duet/internal/onboarding/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresAnswerRepository implements AnswerRepository with PostgreSQL.
type PostgresAnswerRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresAnswerRepository creates a new repository.
func NewPostgresAnswerRepository(pool *pgxpool.Pool) *PostgresAnswerRepository {
	return &PostgresAnswerRepository{pool: pool}
}

// Save upserts one answer, keyed by user and step.
func (r *PostgresAnswerRepository) Save(ctx context.Context, answer *domain.Answer) error {
	query := `
		INSERT INTO onboarding_answers (user_id, step, answer, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, step) DO UPDATE SET
			answer = EXCLUDED.answer,
			updated_at = NOW()
	`
	_, err := r.pool.Exec(ctx, query, answer.UserID, string(answer.Step), answer.Value)
	return err
}

// FindByUserID returns all recorded answers for a user.
func (r *PostgresAnswerRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Answer, error) {
	query := `
		SELECT user_id, step, answer, updated_at
		FROM onboarding_answers
		WHERE user_id = $1
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var answers []domain.Answer
	for rows.Next() {
		var (
			uid       uuid.UUID
			step      string
			value     string
			updatedAt time.Time
		)
		if err := rows.Scan(&uid, &step, &value, &updatedAt); err != nil {
			return nil, err
		}
		answers = append(answers, domain.Answer{
			UserID:    uid,
			Step:      domain.Step(step),
			Value:     value,
			UpdatedAt: updatedAt,
		})
	}
	return answers, rows.Err()
}

// PostgresProfileRepository implements ProfileRepository with PostgreSQL.
type PostgresProfileRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresProfileRepository creates a new repository.
func NewPostgresProfileRepository(pool *pgxpool.Pool) *PostgresProfileRepository {
	return &PostgresProfileRepository{pool: pool}
}

// Save upserts the profile.
func (r *PostgresProfileRepository) Save(ctx context.Context, profile *domain.Profile) error {
	query := `
		INSERT INTO onboarding_profiles (user_id, in_progress, current_step, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			in_progress = EXCLUDED.in_progress,
			current_step = EXCLUDED.current_step,
			updated_at = NOW()
	`
	_, err := r.pool.Exec(ctx, query, profile.UserID, profile.InProgress, string(profile.CurrentStep))
	return err
}

// FindByUserID returns the profile, or nil when absent.
func (r *PostgresProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	query := `
		SELECT user_id, in_progress, current_step, updated_at
		FROM onboarding_profiles
		WHERE user_id = $1
	`
	var (
		uid         uuid.UUID
		inProgress  bool
		currentStep string
		updatedAt   time.Time
	)
	err := r.pool.QueryRow(ctx, query, userID).Scan(&uid, &inProgress, &currentStep, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &domain.Profile{
		UserID:      uid,
		InProgress:  inProgress,
		CurrentStep: domain.Step(currentStep),
		UpdatedAt:   updatedAt,
	}, nil
}
