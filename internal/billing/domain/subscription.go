package domain

import (
	"time"

	"github.com/google/uuid"
)

// SubscriptionStatus represents the current billing state.
type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionTrialing SubscriptionStatus = "trialing"
	SubscriptionPastDue  SubscriptionStatus = "past_due"
	SubscriptionCanceled SubscriptionStatus = "canceled"
)

// SubscriptionSource tells where a subscription came from. A subscription
// inherited through partner pairing is kept distinct from a purchase so it
// can be revoked independently of billing.
type SubscriptionSource string

const (
	SourcePurchase SubscriptionSource = "purchase"
	SourcePartner  SubscriptionSource = "partner"
)

// Subscription represents a user's subscription.
type Subscription struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	Plan             string
	Status           SubscriptionStatus
	Source           SubscriptionSource
	PartnerID        *uuid.UUID
	CurrentPeriodEnd *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsActive reports whether the subscription currently grants benefits.
func (s *Subscription) IsActive() bool {
	if s == nil {
		return false
	}
	switch s.Status {
	case SubscriptionActive, SubscriptionTrialing:
		return true
	default:
		return false
	}
}

// IsInherited reports whether the subscription was granted through pairing.
func (s *Subscription) IsInherited() bool {
	return s != nil && s.Source == SourcePartner
}
