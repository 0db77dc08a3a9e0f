package domain

// ValueObject represents an immutable domain concept defined by its attributes.
type ValueObject interface {
	Equals(other ValueObject) bool
}

// CategoryID identifies a content category shared across bounded contexts.
type CategoryID struct {
	value string
}

// NewCategoryID creates a new CategoryID from a string.
func NewCategoryID(value string) CategoryID {
	return CategoryID{value: value}
}

// String returns the string representation of the CategoryID.
func (c CategoryID) String() string {
	return c.value
}

// Equals checks if two CategoryIDs are equal.
func (c CategoryID) Equals(other ValueObject) bool {
	if otherID, ok := other.(CategoryID); ok {
		return c.value == otherID.value
	}
	return false
}

// IsEmpty returns true if the CategoryID is empty.
func (c CategoryID) IsEmpty() bool {
	return c.value == ""
}
