// Package application implements the partner code service: code
// generation, code redemption, and the subscription-inheritance decision
// that follows a successful connection.
package application

import (
	"context"
	"log/slog"
	"sync"

	"github.com/felixgeelhaar/duet/internal/pairing/domain"
	"github.com/felixgeelhaar/duet/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
)

// SubscriptionGranter records an inherited subscription for a user.
type SubscriptionGranter interface {
	GrantInherited(ctx context.Context, userID, partnerID uuid.UUID) error
}

// ConnectResult is returned once a connection is fully populated: both the
// connection and the partner snapshot are available, and the inheritance
// decision has been made.
type ConnectResult struct {
	Connection *domain.Connection
	Partner    domain.PartnerInfo
	Inherited  bool
}

// Service drives the pairing state machine for a single user session.
// It is handed its dependencies explicitly and owned by exactly one
// session; it serializes its own mutations.
type Service struct {
	userID    uuid.UUID
	backend   domain.Backend
	billing   SubscriptionGranter
	publisher eventbus.Publisher
	logger    *slog.Logger
	breaker   *gobreaker.CircuitBreaker[any]

	mu         sync.Mutex
	generation domain.GenerationState
	connState  domain.ConnectionState
	issued     *domain.IssuedCode
	conn       *domain.Connection
	partner    *domain.PartnerInfo
	lastErr    error
	decided    map[uuid.UUID]bool
}

// NewService creates a pairing service for the given user.
func NewService(userID uuid.UUID, backend domain.Backend, billing SubscriptionGranter, publisher eventbus.Publisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Service{
		userID:     userID,
		backend:    backend,
		billing:    billing,
		publisher:  publisher,
		logger:     logger,
		generation: domain.GenerationIdle,
		connState:  domain.ConnectionIdle,
		decided:    make(map[uuid.UUID]bool),
	}

	s.breaker = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name: "pairing-backend",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})

	return s
}

// GenerationState returns the current code-generation state.
func (s *Service) GenerationState() domain.GenerationState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// ConnectionState returns the current connection state.
func (s *Service) ConnectionState() domain.ConnectionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connState
}

// IssuedCode returns the most recently generated code, if any.
func (s *Service) IssuedCode() *domain.IssuedCode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issued
}

// Connection returns the established connection, if any.
func (s *Service) Connection() *domain.Connection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn
}

// Err returns the error held from the last failed operation. It is kept
// as state until the next user action clears it.
func (s *Service) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// CheckExistingConnection looks for an existing connection for the user.
// When one exists the service transitions straight to Connected, fetches
// the partner snapshot and runs the inheritance decision, skipping code
// generation entirely. Returns nil when the user is unpaired.
func (s *Service) CheckExistingConnection(ctx context.Context) (*ConnectResult, error) {
	conn, err := s.call(ctx, func() (any, error) {
		return s.backend.FindConnection(ctx, s.userID)
	})
	if err != nil {
		return nil, err
	}
	existing, _ := conn.(*domain.Connection)
	if existing == nil {
		return nil, nil
	}

	return s.completeConnection(ctx, existing)
}

// GeneratePartnerCode produces a fresh 8-character code. Refused when the
// user is already connected. On failure the error becomes held state; the
// caller must offer an explicit retry, the service never retries on its own.
func (s *Service) GeneratePartnerCode(ctx context.Context) (domain.IssuedCode, error) {
	s.mu.Lock()
	if s.connState == domain.Connected {
		s.mu.Unlock()
		return domain.IssuedCode{}, domain.ErrGenerationRefused
	}
	s.generation = domain.Generating
	s.lastErr = nil
	s.mu.Unlock()

	result, err := s.call(ctx, func() (any, error) {
		return s.backend.IssueCode(ctx, s.userID)
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.generation = domain.GenerationFailed
		s.lastErr = err
		s.logger.Warn("code generation failed", "error", err)
		return domain.IssuedCode{}, err
	}

	issued := result.(domain.IssuedCode)
	s.issued = &issued
	s.generation = domain.CodeReady

	if err := eventbus.PublishEvent(ctx, s.publisher, domain.NewPairingCodeIssued(issued)); err != nil {
		s.logger.Warn("failed to publish code issued event", "error", err)
	}

	return issued, nil
}

// ConnectWithPartnerCode redeems a partner's code. The format check is
// local and happens before any backend call. Backend rejections surface
// as held errors without touching local connection state.
func (s *Service) ConnectWithPartnerCode(ctx context.Context, raw string) (*ConnectResult, error) {
	code, err := domain.ParseCode(raw)
	if err != nil {
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()
		return nil, err
	}

	s.mu.Lock()
	s.connState = domain.Connecting
	s.lastErr = nil
	s.mu.Unlock()

	result, err := s.call(ctx, func() (any, error) {
		return s.backend.Redeem(ctx, code, s.userID)
	})
	if err != nil {
		s.mu.Lock()
		s.connState = domain.ConnectionFailed
		s.lastErr = err
		s.mu.Unlock()
		s.logger.Warn("code redemption failed", "error", err)
		return nil, err
	}

	return s.completeConnection(ctx, result.(*domain.Connection))
}

// completeConnection fetches the partner snapshot and, only once both the
// connection and the snapshot are populated, transitions to Connected and
// evaluates subscription inheritance. This is the single ordered
// observation point: the decision fires exactly once per connection.
func (s *Service) completeConnection(ctx context.Context, conn *domain.Connection) (*ConnectResult, error) {
	info, err := s.call(ctx, func() (any, error) {
		return s.backend.FetchPartnerInfo(ctx, conn.PartnerID())
	})
	if err != nil {
		s.mu.Lock()
		s.connState = domain.ConnectionFailed
		s.lastErr = err
		s.mu.Unlock()
		return nil, err
	}
	partner := info.(domain.PartnerInfo)

	s.mu.Lock()
	s.conn = conn
	s.partner = &partner
	s.connState = domain.Connected
	alreadyDecided := s.decided[conn.ID()]
	s.mu.Unlock()

	result := &ConnectResult{Connection: conn, Partner: partner}

	if alreadyDecided {
		result.Inherited = partner.IsSubscribed
		return result, nil
	}

	if partner.IsSubscribed {
		if s.billing != nil {
			if err := s.billing.GrantInherited(ctx, s.userID, partner.PartnerID); err != nil {
				// Leave the decision pending so a later attempt can grant.
				return nil, err
			}
		}
		result.Inherited = true

		event := domain.NewSubscriptionInherited(conn.ID(), s.userID, partner.PartnerID)
		if err := eventbus.PublishEvent(ctx, s.publisher, event); err != nil {
			s.logger.Warn("failed to publish inheritance event", "error", err)
		}
	}

	for _, event := range conn.DomainEvents() {
		if err := eventbus.PublishEvent(ctx, s.publisher, event); err != nil {
			s.logger.Warn("failed to publish connection event", "error", err)
		}
	}
	conn.ClearDomainEvents()

	s.mu.Lock()
	s.decided[conn.ID()] = true
	s.mu.Unlock()

	s.logger.Info("partners connected",
		"partner_id", partner.PartnerID,
		"inherited", result.Inherited,
	)

	return result, nil
}

// call routes a backend round-trip through the circuit breaker, honoring
// context cancellation before and after the trip.
func (s *Service) call(ctx context.Context, fn func() (any, error)) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := s.breaker.Execute(fn)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
