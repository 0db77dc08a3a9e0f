package domain

import (
	"time"

	sharedDomain "github.com/felixgeelhaar/duet/internal/shared/domain"
	"github.com/google/uuid"
)

// PackSize is the number of items unlocked as a unit.
const PackSize = 32

// CategoryProgress tracks how many packs a user has unlocked in a
// category. A user with no recorded progress has exactly one pack
// unlocked: that default lives here, in the constructor, never at call
// sites. Progress only ever grows.
type CategoryProgress struct {
	UserID        uuid.UUID
	CategoryID    sharedDomain.CategoryID
	UnlockedPacks int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewCategoryProgress creates progress with the default single unlocked pack.
func NewCategoryProgress(userID uuid.UUID, categoryID sharedDomain.CategoryID) *CategoryProgress {
	now := time.Now().UTC()
	return &CategoryProgress{
		UserID:        userID,
		CategoryID:    categoryID,
		UnlockedPacks: 1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// AccessibleItemCount returns how many items the unlocked packs cover,
// capped at the category's total.
func (p *CategoryProgress) AccessibleItemCount(totalItems int) int {
	count := p.UnlockedPacks * PackSize
	if count > totalItems {
		return totalItems
	}
	return count
}

// HasMorePacks reports whether another pack can still be unlocked.
func (p *CategoryProgress) HasMorePacks(totalItems int) bool {
	return p.UnlockedPacks*PackSize < totalItems
}

// UnlockNextPack increments the unlocked pack count by exactly one.
// Unlocking past the total is a silent clamp, not an error: the total is
// externally loaded content and may shrink between sessions.
func (p *CategoryProgress) UnlockNextPack(totalItems int) {
	if !p.HasMorePacks(totalItems) {
		return
	}
	p.UnlockedPacks++
	p.UpdatedAt = time.Now().UTC()
}

// CompletedPack reports the ordinal of the pack the user just finished:
// set when the accessible count is an exact multiple of PackSize and more
// packs remain.
func CompletedPack(accessibleItems, totalItems int) (int, bool) {
	if accessibleItems == 0 || accessibleItems%PackSize != 0 {
		return 0, false
	}
	if accessibleItems >= totalItems {
		return 0, false
	}
	return accessibleItems / PackSize, true
}
