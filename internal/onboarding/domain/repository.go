package domain

import (
	"context"

	"github.com/google/uuid"
)

// AnswerRepository persists the answers entered during onboarding.
type AnswerRepository interface {
	// Save upserts one answer, keyed by user and step.
	Save(ctx context.Context, answer *Answer) error

	// FindByUserID returns all recorded answers for a user, in no
	// particular order.
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]Answer, error)
}

// ProfileRepository persists onboarding position per user.
type ProfileRepository interface {
	// Save upserts the profile.
	Save(ctx context.Context, profile *Profile) error

	// FindByUserID returns the profile, or nil when the user has never
	// started onboarding.
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error)
}
