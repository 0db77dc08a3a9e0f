package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldShowPaywall_SubscriptionAlwaysWins(t *testing.T) {
	for _, premium := range []bool{true, false} {
		for _, accessible := range []int{0, 32, 64, 96, 1000} {
			assert.False(t, ShouldShowPaywall(true, premium, accessible, 1000),
				"premium=%v accessible=%d", premium, accessible)
		}
	}
}

func TestShouldShowPaywall_PremiumCategoryGatedElsewhere(t *testing.T) {
	assert.False(t, ShouldShowPaywall(false, true, 96, 200))
}

func TestShouldShowPaywall_ShortCategoryNeverGated(t *testing.T) {
	// A category that cannot outgrow the free limit never shows a
	// paywall, regardless of subscription state.
	for _, total := range []int{0, 20, 32, 64} {
		assert.False(t, ShouldShowPaywall(false, false, total, total), "total=%d", total)
	}
}

func TestShouldShowPaywall_FreeCategoryAtCap(t *testing.T) {
	assert.False(t, ShouldShowPaywall(false, false, 32, 96))
	assert.True(t, ShouldShowPaywall(false, false, 64, 96))
}

func TestShouldShowPaywall_KeepsGatingPastCap(t *testing.T) {
	// Unlocking past the cap without subscribing does not lift the gate:
	// a fully-unlocked 96-item category still shows the paywall.
	assert.True(t, ShouldShowPaywall(false, false, 96, 96))
	assert.True(t, ShouldShowPaywall(false, false, 96, 96+32))
}
