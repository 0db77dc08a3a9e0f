package domain

// CardKind distinguishes the three card types the browsing UI renders.
type CardKind string

const (
	CardItem           CardKind = "item"
	CardPackCompletion CardKind = "pack_completion"
	CardPaywall        CardKind = "paywall"
)

// Card is one position in the rendered content stream.
type Card struct {
	Kind CardKind

	// Item is set for CardItem.
	Item *Item

	// PackNumber is set for CardPackCompletion: the ordinal of the pack
	// just completed.
	PackNumber int
}
