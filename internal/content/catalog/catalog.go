// Package catalog ships the built-in question catalog used in local
// mode. Categories and item counts are stable across runs: item IDs are
// derived deterministically so progress keyed on them survives restarts.
package catalog

import (
	"fmt"

	"github.com/felixgeelhaar/duet/internal/content/domain"
	sharedDomain "github.com/felixgeelhaar/duet/internal/shared/domain"
	"github.com/google/uuid"
)

var categories = []domain.Category{
	{ID: sharedDomain.NewCategoryID("free-category"), Name: "Getting to Know You", IsPremium: false, TotalItems: 96},
	{ID: sharedDomain.NewCategoryID("date-night"), Name: "Date Night", IsPremium: true, TotalItems: 96},
	{ID: sharedDomain.NewCategoryID("deep-talk"), Name: "Deep Talk", IsPremium: true, TotalItems: 128},
	{ID: sharedDomain.NewCategoryID("quick-start"), Name: "Quick Start", IsPremium: false, TotalItems: 24},
}

var starters = map[string][]string{
	"free-category": {
		"What small thing made you smile this week?",
		"Which song reminds you of when we met?",
		"What is one habit of mine you secretly like?",
	},
	"date-night": {
		"If we could teleport anywhere for dinner tonight, where would we go?",
		"What would your perfect lazy Sunday together look like?",
	},
	"deep-talk": {
		"What fear would you like to let go of this year?",
		"When did you last feel truly understood by me?",
	},
	"quick-start": {
		"Coffee or tea, and how do you take it?",
		"What was your first impression of me?",
	},
}

// Categories returns all built-in categories.
func Categories() []domain.Category {
	out := make([]domain.Category, len(categories))
	copy(out, categories)
	return out
}

// FindCategory resolves a raw category identifier, as read from CLI
// arguments or URL paths.
func FindCategory(raw string) (domain.Category, bool) {
	for _, category := range categories {
		if category.ID.String() == raw {
			return category, true
		}
	}
	return domain.Category{}, false
}

// Items returns the ordered items of a category. Beyond the hand-written
// starters, texts are generated placeholders standing in for the remotely
// loaded catalog.
func Items(categoryID sharedDomain.CategoryID) []domain.Item {
	category, ok := FindCategory(categoryID.String())
	if !ok {
		return nil
	}

	items := make([]domain.Item, category.TotalItems)
	for i := range items {
		text := fmt.Sprintf("%s question %d", category.Name, i+1)
		if i < len(starters[categoryID.String()]) {
			text = starters[categoryID.String()][i]
		}
		items[i] = domain.Item{
			ID:         itemID(categoryID, i),
			CategoryID: categoryID,
			Text:       text,
			Position:   i,
		}
	}
	return items
}

func itemID(categoryID sharedDomain.CategoryID, position int) uuid.UUID {
	name := fmt.Sprintf("duet/content/%s/%d", categoryID.String(), position)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name))
}
