package domain

import (
	sharedDomain "github.com/felixgeelhaar/duet/internal/shared/domain"
	"github.com/google/uuid"
)

// Routing keys for pairing events.
const (
	RoutingKeyCodeIssued            = "pairing.code_issued"
	RoutingKeyConnected             = "pairing.connected"
	RoutingKeySubscriptionInherited = "pairing.subscription_inherited"
)

const aggregateTypeConnection = "Connection"

// PairingCodeIssued is emitted when a fresh code is generated.
type PairingCodeIssued struct {
	sharedDomain.BaseEvent
	OwnerID uuid.UUID `json:"owner_id"`
	Code    string    `json:"code"`
}

// NewPairingCodeIssued creates the event for an issued code.
func NewPairingCodeIssued(issued IssuedCode) *PairingCodeIssued {
	return &PairingCodeIssued{
		BaseEvent: sharedDomain.NewBaseEvent(issued.OwnerID, aggregateTypeConnection, RoutingKeyCodeIssued),
		OwnerID:   issued.OwnerID,
		Code:      issued.Code.String(),
	}
}

// PartnersConnected is emitted when a connection is established.
type PartnersConnected struct {
	sharedDomain.BaseEvent
	UserID    uuid.UUID `json:"user_id"`
	PartnerID uuid.UUID `json:"partner_id"`
}

// NewPartnersConnected creates the event for a new connection.
func NewPartnersConnected(conn *Connection) *PartnersConnected {
	return &PartnersConnected{
		BaseEvent: sharedDomain.NewBaseEvent(conn.ID(), aggregateTypeConnection, RoutingKeyConnected),
		UserID:    conn.UserID(),
		PartnerID: conn.PartnerID(),
	}
}

// SubscriptionInherited is emitted when pairing grants the local user the
// partner's subscription benefit.
type SubscriptionInherited struct {
	sharedDomain.BaseEvent
	UserID    uuid.UUID `json:"user_id"`
	PartnerID uuid.UUID `json:"partner_id"`
}

// NewSubscriptionInherited creates the inheritance event.
func NewSubscriptionInherited(connectionID, userID, partnerID uuid.UUID) *SubscriptionInherited {
	return &SubscriptionInherited{
		BaseEvent: sharedDomain.NewBaseEvent(connectionID, aggregateTypeConnection, RoutingKeySubscriptionInherited),
		UserID:    userID,
		PartnerID: partnerID,
	}
}
