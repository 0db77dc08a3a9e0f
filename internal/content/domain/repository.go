package domain

import (
	"context"

	sharedDomain "github.com/felixgeelhaar/duet/internal/shared/domain"
	"github.com/google/uuid"
)

// ProgressRepository persists per-user, per-category pack progress.
type ProgressRepository interface {
	// Find returns recorded progress, or nil when none exists yet.
	Find(ctx context.Context, userID uuid.UUID, categoryID sharedDomain.CategoryID) (*CategoryProgress, error)

	// Save upserts a progress record.
	Save(ctx context.Context, progress *CategoryProgress) error
}
