// Package application exposes the pack-progress store and the freemium
// gate as the read values the browsing UI consumes.
package application

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/duet/internal/content/domain"
	sharedDomain "github.com/felixgeelhaar/duet/internal/shared/domain"
	"github.com/felixgeelhaar/duet/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
)

// PackUnlocked is emitted when a user unlocks the next pack in a category.
type PackUnlocked struct {
	sharedDomain.BaseEvent
	UserID        uuid.UUID `json:"user_id"`
	CategoryID    string    `json:"category_id"`
	UnlockedPacks int       `json:"unlocked_packs"`
}

// RoutingKeyPackUnlocked routes pack-unlock events.
const RoutingKeyPackUnlocked = "content.pack_unlocked"

// ProgressService owns category progress for one user session. Mutations
// happen only through UnlockNextPack, on explicit user action; reads never
// write.
type ProgressService struct {
	userID    uuid.UUID
	progress  domain.ProgressRepository
	publisher eventbus.Publisher
	logger    *slog.Logger
}

// NewProgressService creates a progress service for the given user.
func NewProgressService(userID uuid.UUID, progress domain.ProgressRepository, publisher eventbus.Publisher, logger *slog.Logger) *ProgressService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProgressService{
		userID:    userID,
		progress:  progress,
		publisher: publisher,
		logger:    logger,
	}
}

// find loads progress, falling back to the documented one-pack default
// without writing it: a record is only persisted on the first unlock.
func (s *ProgressService) find(ctx context.Context, categoryID sharedDomain.CategoryID) (*domain.CategoryProgress, error) {
	progress, err := s.progress.Find(ctx, s.userID, categoryID)
	if err != nil {
		return nil, err
	}
	if progress == nil {
		progress = domain.NewCategoryProgress(s.userID, categoryID)
	}
	return progress, nil
}

// AccessibleItems returns the visible prefix of a category's items.
func (s *ProgressService) AccessibleItems(ctx context.Context, categoryID sharedDomain.CategoryID, items []domain.Item) ([]domain.Item, error) {
	progress, err := s.find(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	count := progress.AccessibleItemCount(len(items))
	return items[:count], nil
}

// AccessibleItemCount returns how many of the category's items are visible.
func (s *ProgressService) AccessibleItemCount(ctx context.Context, categoryID sharedDomain.CategoryID, totalItems int) (int, error) {
	progress, err := s.find(ctx, categoryID)
	if err != nil {
		return 0, err
	}
	return progress.AccessibleItemCount(totalItems), nil
}

// HasMorePacks reports whether another pack can still be unlocked.
func (s *ProgressService) HasMorePacks(ctx context.Context, categoryID sharedDomain.CategoryID, totalItems int) (bool, error) {
	progress, err := s.find(ctx, categoryID)
	if err != nil {
		return false, err
	}
	return progress.HasMorePacks(totalItems), nil
}

// UnlockNextPack unlocks one more pack and persists the new count.
// Over-unlock is a silent clamp and writes nothing.
func (s *ProgressService) UnlockNextPack(ctx context.Context, categoryID sharedDomain.CategoryID, totalItems int) error {
	progress, err := s.find(ctx, categoryID)
	if err != nil {
		return err
	}

	before := progress.UnlockedPacks
	progress.UnlockNextPack(totalItems)
	if progress.UnlockedPacks == before {
		return nil
	}

	if err := s.progress.Save(ctx, progress); err != nil {
		return err
	}

	event := &PackUnlocked{
		BaseEvent:     sharedDomain.NewBaseEvent(s.userID, "CategoryProgress", RoutingKeyPackUnlocked),
		UserID:        s.userID,
		CategoryID:    categoryID.String(),
		UnlockedPacks: progress.UnlockedPacks,
	}
	if err := eventbus.PublishEvent(ctx, s.publisher, event); err != nil {
		s.logger.Warn("failed to publish pack unlocked event", "error", err)
	}

	s.logger.Info("pack unlocked",
		"category_id", categoryID.String(),
		"unlocked_packs", progress.UnlockedPacks,
	)
	return nil
}
