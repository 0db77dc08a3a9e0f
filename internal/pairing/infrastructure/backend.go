// Package infrastructure provides the local pairing backend: the same
// boundary a remote pairing API would sit behind, served from the code
// store and connection repository.
package infrastructure

import (
	"context"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/duet/internal/pairing/domain"
	sharedApplication "github.com/felixgeelhaar/duet/internal/shared/application"
	"github.com/google/uuid"
)

// SubscriptionReader answers whether a user has an active subscription.
type SubscriptionReader interface {
	IsSubscribed(ctx context.Context, userID uuid.UUID) (bool, error)
}

// LocalBackend implements domain.Backend against local storage.
type LocalBackend struct {
	codes   domain.CodeStore
	conns   domain.ConnectionRepository
	billing SubscriptionReader
	uow     sharedApplication.UnitOfWork
	codeTTL time.Duration
	logger  *slog.Logger
}

// NewLocalBackend creates the local pairing backend. The unit of work
// scopes redemption; nil runs the checks and save untransacted.
func NewLocalBackend(codes domain.CodeStore, conns domain.ConnectionRepository, billing SubscriptionReader, uow sharedApplication.UnitOfWork, codeTTL time.Duration, logger *slog.Logger) *LocalBackend {
	if logger == nil {
		logger = slog.Default()
	}
	return &LocalBackend{
		codes:   codes,
		conns:   conns,
		billing: billing,
		uow:     uow,
		codeTTL: codeTTL,
		logger:  logger,
	}
}

// IssueCode generates a fresh code and registers it with its TTL. A
// collision with a live code is retried a few times before giving up;
// uniqueness beyond that is the store's problem, not ours.
func (b *LocalBackend) IssueCode(ctx context.Context, ownerID uuid.UUID) (domain.IssuedCode, error) {
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		code, err := domain.GenerateCode()
		if err != nil {
			return domain.IssuedCode{}, err
		}

		if err := b.codes.Put(ctx, code, ownerID, b.codeTTL); err != nil {
			lastErr = err
			continue
		}

		now := time.Now().UTC()
		return domain.IssuedCode{
			Code:      code,
			OwnerID:   ownerID,
			IssuedAt:  now,
			ExpiresAt: now.Add(b.codeTTL),
		}, nil
	}
	return domain.IssuedCode{}, lastErr
}

// Redeem validates a code and creates the symmetric connection. The
// already-paired checks and the pair save run in one unit of work, so
// two racing redemptions cannot both pass the checks.
func (b *LocalBackend) Redeem(ctx context.Context, code domain.Code, userID uuid.UUID) (*domain.Connection, error) {
	ownerID, err := b.codes.Resolve(ctx, code)
	if err != nil {
		return nil, err
	}
	if ownerID == userID {
		return nil, domain.ErrSelfPairing
	}

	var conn *domain.Connection
	pair := func(txCtx context.Context) error {
		if existing, err := b.conns.FindByUserID(txCtx, ownerID); err != nil {
			return err
		} else if existing != nil {
			return domain.ErrAlreadyPaired
		}
		if existing, err := b.conns.FindByUserID(txCtx, userID); err != nil {
			return err
		} else if existing != nil {
			return domain.ErrAlreadyPaired
		}

		created, err := domain.NewConnection(userID, ownerID)
		if err != nil {
			return err
		}
		if err := b.conns.Save(txCtx, created); err != nil {
			return err
		}
		conn = created
		return nil
	}

	if b.uow != nil {
		err = sharedApplication.WithUnitOfWork(ctx, b.uow, pair)
	} else {
		err = pair(ctx)
	}
	if err != nil {
		return nil, err
	}

	if err := b.codes.Invalidate(ctx, code); err != nil {
		b.logger.Warn("failed to invalidate redeemed code", "error", err)
	}

	return conn, nil
}

// FindConnection returns an existing connection for the user, if any.
func (b *LocalBackend) FindConnection(ctx context.Context, userID uuid.UUID) (*domain.Connection, error) {
	return b.conns.FindByUserID(ctx, userID)
}

// FetchPartnerInfo snapshots the partner's subscription status.
func (b *LocalBackend) FetchPartnerInfo(ctx context.Context, partnerID uuid.UUID) (domain.PartnerInfo, error) {
	subscribed, err := b.billing.IsSubscribed(ctx, partnerID)
	if err != nil {
		return domain.PartnerInfo{}, err
	}
	return domain.PartnerInfo{PartnerID: partnerID, IsSubscribed: subscribed}, nil
}
