package domain

import (
	"time"

	"github.com/google/uuid"
)

// Answer is one piece of data the user entered at an onboarding step.
// Answers survive interruption: resuming a flow rehydrates them before
// any forced navigation so nothing entered is lost.
type Answer struct {
	UserID    uuid.UUID
	Step      Step
	Value     string
	UpdatedAt time.Time
}

// Profile records where a user stands in onboarding. InProgress stays
// true from the first step until explicit completion.
type Profile struct {
	UserID      uuid.UUID
	InProgress  bool
	CurrentStep Step
	UpdatedAt   time.Time
}

// NewProfile starts a fresh in-progress profile at the given step.
func NewProfile(userID uuid.UUID, step Step) *Profile {
	return &Profile{
		UserID:      userID,
		InProgress:  true,
		CurrentStep: step,
		UpdatedAt:   time.Now().UTC(),
	}
}
