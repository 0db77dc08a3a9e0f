package application

import (
	"context"

	"github.com/felixgeelhaar/duet/internal/content/domain"
)

// StreamBuilder composes the card stream for a category: visible items,
// a pack-completion card at a finished pack boundary, and the paywall
// card when the freemium gate requires one.
type StreamBuilder struct {
	progress *ProgressService
}

// NewStreamBuilder creates a stream builder over the progress service.
func NewStreamBuilder(progress *ProgressService) *StreamBuilder {
	return &StreamBuilder{progress: progress}
}

// Build returns the ordered cards for a category. isSubscribed comes from
// billing; the builder never mutates any state.
func (b *StreamBuilder) Build(ctx context.Context, category domain.Category, items []domain.Item, isSubscribed bool) ([]domain.Card, error) {
	visible, err := b.progress.AccessibleItems(ctx, category.ID, items)
	if err != nil {
		return nil, err
	}

	cards := make([]domain.Card, 0, len(visible)+2)
	for i := range visible {
		cards = append(cards, domain.Card{Kind: domain.CardItem, Item: &visible[i]})
	}

	if domain.ShouldShowPaywall(isSubscribed, category.IsPremium, len(visible), len(items)) {
		cards = append(cards, domain.Card{Kind: domain.CardPaywall})
		return cards, nil
	}

	if pack, ok := domain.CompletedPack(len(visible), len(items)); ok {
		cards = append(cards, domain.Card{Kind: domain.CardPackCompletion, PackNumber: pack})
	}

	return cards, nil
}
