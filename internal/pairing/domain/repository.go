package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CodeStore indexes active pairing codes by their text. Entries expire on
// their own: uniqueness and TTL are properties of the store, not of this
// core.
type CodeStore interface {
	// Put registers a code for its owner with the given time-to-live.
	Put(ctx context.Context, code Code, ownerID uuid.UUID, ttl time.Duration) error

	// Resolve returns the owner of a code. ErrCodeNotFound when absent
	// or expired.
	Resolve(ctx context.Context, code Code) (uuid.UUID, error)

	// Invalidate removes a code after redemption.
	Invalidate(ctx context.Context, code Code) error
}

// ConnectionRepository persists pairing connections.
type ConnectionRepository interface {
	// Save persists both sides of a connection.
	Save(ctx context.Context, conn *Connection) error

	// FindByUserID returns the user's connection, or nil when unpaired.
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Connection, error)
}

// Backend is the pairing backend boundary: code generation, redemption and
// partner lookup are network round-trips from the caller's point of view.
// The local implementation composes a CodeStore and a ConnectionRepository;
// a remote one would talk to the pairing API.
type Backend interface {
	// IssueCode generates and registers a fresh code for the owner.
	IssueCode(ctx context.Context, ownerID uuid.UUID) (IssuedCode, error)

	// Redeem validates a code and creates the connection between the
	// redeeming user and the code's owner. Fails with ErrCodeNotFound,
	// ErrCodeExpired, ErrSelfPairing or ErrAlreadyPaired.
	Redeem(ctx context.Context, code Code, userID uuid.UUID) (*Connection, error)

	// FindConnection returns an existing connection for the user, if any.
	FindConnection(ctx context.Context, userID uuid.UUID) (*Connection, error)

	// FetchPartnerInfo snapshots the partner's subscription status.
	FetchPartnerInfo(ctx context.Context, partnerID uuid.UUID) (PartnerInfo, error)
}
