package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/felixgeelhaar/duet/internal/onboarding/domain"
	"github.com/felixgeelhaar/duet/internal/shared/infrastructure/migrations"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupOnboardingDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrations.RunSQLiteMigrations(context.Background(), db))
	return db
}

func TestSQLiteAnswerRepo_SaveAndFind(t *testing.T) {
	repo := NewSQLiteAnswerRepository(setupOnboardingDB(t))
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, repo.Save(ctx, &domain.Answer{
		UserID: userID,
		Step:   domain.StepProfile,
		Value:  "Alex",
	}))
	require.NoError(t, repo.Save(ctx, &domain.Answer{
		UserID: userID,
		Step:   domain.StepPhoto,
		Value:  "photo.jpg",
	}))

	answers, err := repo.FindByUserID(ctx, userID)
	require.NoError(t, err)
	require.Len(t, answers, 2)

	byStep := make(map[domain.Step]string)
	for _, answer := range answers {
		byStep[answer.Step] = answer.Value
	}
	assert.Equal(t, "Alex", byStep[domain.StepProfile])
	assert.Equal(t, "photo.jpg", byStep[domain.StepPhoto])
}

func TestSQLiteAnswerRepo_SaveUpsertsPerStep(t *testing.T) {
	repo := NewSQLiteAnswerRepository(setupOnboardingDB(t))
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, repo.Save(ctx, &domain.Answer{UserID: userID, Step: domain.StepProfile, Value: "Alex"}))
	require.NoError(t, repo.Save(ctx, &domain.Answer{UserID: userID, Step: domain.StepProfile, Value: "Sam"}))

	answers, err := repo.FindByUserID(ctx, userID)
	require.NoError(t, err)
	require.Len(t, answers, 1)
	assert.Equal(t, "Sam", answers[0].Value)
}

func TestSQLiteAnswerRepo_UsersIsolated(t *testing.T) {
	repo := NewSQLiteAnswerRepository(setupOnboardingDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &domain.Answer{UserID: uuid.New(), Step: domain.StepProfile, Value: "Alex"}))

	answers, err := repo.FindByUserID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, answers)
}

func TestSQLiteProfileRepo_RoundTrip(t *testing.T) {
	repo := NewSQLiteProfileRepository(setupOnboardingDB(t))
	ctx := context.Background()

	profile := domain.NewProfile(uuid.New(), domain.StepPartner)
	require.NoError(t, repo.Save(ctx, profile))

	found, err := repo.FindByUserID(ctx, profile.UserID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.True(t, found.InProgress)
	assert.Equal(t, domain.StepPartner, found.CurrentStep)
}

func TestSQLiteProfileRepo_FindMissingReturnsNil(t *testing.T) {
	repo := NewSQLiteProfileRepository(setupOnboardingDB(t))

	found, err := repo.FindByUserID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestSQLiteProfileRepo_SaveUpserts(t *testing.T) {
	repo := NewSQLiteProfileRepository(setupOnboardingDB(t))
	ctx := context.Background()

	profile := domain.NewProfile(uuid.New(), domain.StepWelcome)
	require.NoError(t, repo.Save(ctx, profile))

	profile.InProgress = false
	profile.CurrentStep = domain.StepCompletion
	require.NoError(t, repo.Save(ctx, profile))

	found, err := repo.FindByUserID(ctx, profile.UserID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.False(t, found.InProgress)
	assert.Equal(t, domain.StepCompletion, found.CurrentStep)
}
