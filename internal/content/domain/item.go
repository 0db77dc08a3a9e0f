package domain

import (
	sharedDomain "github.com/felixgeelhaar/duet/internal/shared/domain"
	"github.com/google/uuid"
)

// Item is one piece of browsable content (a question or challenge).
type Item struct {
	ID         uuid.UUID
	CategoryID sharedDomain.CategoryID
	Text       string
	Position   int
}

// Category describes a content category at its boundary: items are loaded
// externally, this core only consumes the list and its stable total.
type Category struct {
	ID         sharedDomain.CategoryID
	Name       string
	IsPremium  bool
	TotalItems int
}
