package domain

import (
	sharedDomain "github.com/felixgeelhaar/duet/internal/shared/domain"
	"github.com/google/uuid"
)

// Connection links two users. It is symmetric: each side stores the
// other's id. A user has at most one active connection, and the pairing
// subsystem never destroys one once created.
type Connection struct {
	sharedDomain.BaseAggregateRoot
	userID    uuid.UUID
	partnerID uuid.UUID
}

// NewConnection creates a connection from the redeeming user's point of view.
func NewConnection(userID, partnerID uuid.UUID) (*Connection, error) {
	if userID == partnerID {
		return nil, ErrSelfPairing
	}

	conn := &Connection{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		userID:            userID,
		partnerID:         partnerID,
	}
	conn.AddDomainEvent(NewPartnersConnected(conn))
	return conn, nil
}

// RehydrateConnection recreates a connection from persisted state.
func RehydrateConnection(entity sharedDomain.BaseEntity, userID, partnerID uuid.UUID) *Connection {
	return &Connection{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(entity),
		userID:            userID,
		partnerID:         partnerID,
	}
}

func (c *Connection) UserID() uuid.UUID    { return c.userID }
func (c *Connection) PartnerID() uuid.UUID { return c.partnerID }

// Mirror returns the same connection seen from the partner's side.
func (c *Connection) Mirror() *Connection {
	return &Connection{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		userID:            c.partnerID,
		partnerID:         c.userID,
	}
}

// PartnerInfo is a read model snapshot of the linked partner, fetched once
// a connection exists. It exists only to decide subscription inheritance;
// billing remains the source of truth.
type PartnerInfo struct {
	PartnerID    uuid.UUID
	IsSubscribed bool
}
