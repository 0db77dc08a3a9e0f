package domain

// FreeItemLimit is the maximum number of items (two packs) visible to an
// unsubscribed user in the designated free category.
const FreeItemLimit = 2 * PackSize

// ShouldShowPaywall decides whether a paywall card must be appended to the
// rendered item stream. Pure: it never mutates subscription or pack state.
//
// Premium categories return false here: they are gated elsewhere, the
// numeric cap applies only to the designated free category. A category
// too short to outgrow the limit never shows a paywall it cannot relieve.
func ShouldShowPaywall(isSubscribed, isPremiumCategory bool, accessibleItems, totalItems int) bool {
	if isSubscribed {
		return false
	}
	if isPremiumCategory {
		return false
	}
	return accessibleItems >= FreeItemLimit && totalItems > FreeItemLimit
}
