// Package application drives the onboarding flow: step navigation,
// answer persistence, resumption, and the two forced jumps (resume to
// subscription, inheritance to completion).
package application

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/duet/internal/onboarding/domain"
	"github.com/felixgeelhaar/duet/internal/readiness"
	sharedDomain "github.com/felixgeelhaar/duet/internal/shared/domain"
	"github.com/felixgeelhaar/duet/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
)

// OnboardingCompleted is emitted when a user finishes onboarding.
type OnboardingCompleted struct {
	sharedDomain.BaseEvent
	UserID              uuid.UUID `json:"user_id"`
	SubscriptionSkipped bool      `json:"subscription_skipped"`
}

// RoutingKeyOnboardingCompleted routes onboarding completion events.
const RoutingKeyOnboardingCompleted = "onboarding.completed"

// Flow sequences onboarding for one user. It is owned by a single
// session and serializes its own mutations.
type Flow struct {
	userID    uuid.UUID
	sequence  *domain.Sequence
	answers   domain.AnswerRepository
	profiles  domain.ProfileRepository
	waiter    *readiness.Waiter
	publisher eventbus.Publisher
	logger    *slog.Logger

	state     *domain.State
	collected map[domain.Step]string
	skipped   bool
}

// NewFlow creates an onboarding flow for the given user.
func NewFlow(
	userID uuid.UUID,
	sequence *domain.Sequence,
	answers domain.AnswerRepository,
	profiles domain.ProfileRepository,
	waiter *readiness.Waiter,
	publisher eventbus.Publisher,
	logger *slog.Logger,
) *Flow {
	if logger == nil {
		logger = slog.Default()
	}
	return &Flow{
		userID:    userID,
		sequence:  sequence,
		answers:   answers,
		profiles:  profiles,
		waiter:    waiter,
		publisher: publisher,
		logger:    logger,
		collected: make(map[domain.Step]string),
	}
}

// Start positions the flow. A fresh user begins at the first step. A
// user with onboarding in progress has all previously entered answers
// rehydrated first, then resumes at the recorded step, so the collection
// steps (welcome through partner) stay reachable across sessions. Only a
// session interrupted past the collection steps jumps straight to the
// subscription step; the loading step is transient and never resumed into.
func (f *Flow) Start(ctx context.Context) error {
	profile, err := f.profiles.FindByUserID(ctx, f.userID)
	if err != nil {
		return err
	}

	if profile == nil || !profile.InProgress {
		f.state = domain.NewState(f.sequence)
		return f.saveProfile(ctx)
	}

	answers, err := f.answers.FindByUserID(ctx, f.userID)
	if err != nil {
		return err
	}
	for _, answer := range answers {
		f.collected[answer.Step] = answer.Value
	}

	state, err := domain.ResumeState(f.sequence, profile.CurrentStep)
	if err != nil {
		// Recorded step no longer part of the sequence: start over.
		state = domain.NewState(f.sequence)
	}
	f.state = state

	if current := f.state.Current(); current == domain.StepLoading || current == domain.StepSubscription {
		if err := f.state.ForceGoTo(domain.StepSubscription); err != nil {
			return err
		}
	}

	f.logger.Info("onboarding resumed",
		"answers", len(answers),
		"step", f.state.Current(),
	)
	return f.saveProfile(ctx)
}

// Current returns the current step.
func (f *Flow) Current() domain.Step {
	return f.state.Current()
}

// Progress returns visible-step progress in [0,1].
func (f *Flow) Progress() float64 {
	return f.state.Progress()
}

// Answer returns a previously collected answer for a step.
func (f *Flow) Answer(step domain.Step) (string, bool) {
	value, ok := f.collected[step]
	return value, ok
}

// RecordAnswer stores the user's input for a step.
func (f *Flow) RecordAnswer(ctx context.Context, step domain.Step, value string) error {
	if !f.sequence.Contains(step) {
		return domain.ErrUnknownStep
	}
	answer := &domain.Answer{UserID: f.userID, Step: step, Value: value}
	if err := f.answers.Save(ctx, answer); err != nil {
		return err
	}
	f.collected[step] = value
	return nil
}

// Next advances one step and persists the new position.
func (f *Flow) Next(ctx context.Context) error {
	f.state.Next()
	return f.saveProfile(ctx)
}

// Previous steps back and persists the new position.
func (f *Flow) Previous(ctx context.Context) error {
	f.state.Previous()
	return f.saveProfile(ctx)
}

// AdvanceAfterPairing moves past the partner step once pairing has
// resolved. The readiness wait runs first and is non-fatal: a timeout is
// logged and the flow proceeds. With an inherited subscription the flow
// jumps straight to completion, skipping the subscription step; this is
// the only path that skips it.
func (f *Flow) AdvanceAfterPairing(ctx context.Context, inherited bool, isReady readiness.Predicate) error {
	if f.waiter != nil && isReady != nil {
		if ready := f.waiter.Await(ctx, isReady); !ready {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			f.logger.Warn("proceeding without downstream readiness")
		}
	}

	if inherited {
		f.skipped = true
		if err := f.state.ForceGoTo(domain.StepCompletion); err != nil {
			return err
		}
		f.logger.Info("subscription step skipped via partner inheritance")
		return f.saveProfile(ctx)
	}

	f.state.Next()
	return f.saveProfile(ctx)
}

// Complete finishes onboarding: the profile is marked done and a
// completion event is published.
func (f *Flow) Complete(ctx context.Context) error {
	profile := domain.NewProfile(f.userID, f.state.Current())
	profile.InProgress = false
	if err := f.profiles.Save(ctx, profile); err != nil {
		return err
	}

	event := &OnboardingCompleted{
		BaseEvent:           sharedDomain.NewBaseEvent(f.userID, "OnboardingProfile", RoutingKeyOnboardingCompleted),
		UserID:              f.userID,
		SubscriptionSkipped: f.skipped,
	}
	if err := eventbus.PublishEvent(ctx, f.publisher, event); err != nil {
		f.logger.Warn("failed to publish onboarding completed event", "error", err)
	}

	f.logger.Info("onboarding completed", "subscription_skipped", f.skipped)
	return nil
}

func (f *Flow) saveProfile(ctx context.Context) error {
	return f.profiles.Save(ctx, domain.NewProfile(f.userID, f.state.Current()))
}
