// Package domain models the onboarding step sequence: a finite ordered
// list of steps, a subset of which is hidden from the visible progress
// computation.
package domain

import "errors"

// Step identifies one screen of the onboarding flow.
type Step string

const (
	StepWelcome           Step = "welcome"
	StepAuth              Step = "auth"
	StepProfile           Step = "profile"
	StepPhoto             Step = "photo"
	StepQuestionsIntro    Step = "questions_intro"
	StepCategoriesPreview Step = "categories_preview"
	StepPartner           Step = "partner"
	StepLoading           Step = "loading"
	StepSubscription      Step = "subscription"
	StepCompletion        Step = "completion"
)

// ErrUnknownStep is returned when a step is not part of the sequence.
var ErrUnknownStep = errors.New("step not part of onboarding sequence")

// Sequence is the immutable ordered step list plus the set of steps
// excluded from progress display.
type Sequence struct {
	steps  []Step
	hidden map[Step]bool
}

// NewSequence builds a sequence. Hidden steps that are not in the ordered
// list are ignored.
func NewSequence(steps []Step, hidden []Step) (*Sequence, error) {
	if len(steps) == 0 {
		return nil, errors.New("onboarding sequence must not be empty")
	}
	seen := make(map[Step]bool, len(steps))
	for _, step := range steps {
		if seen[step] {
			return nil, errors.New("onboarding sequence contains duplicate step " + string(step))
		}
		seen[step] = true
	}

	hiddenSet := make(map[Step]bool, len(hidden))
	for _, step := range hidden {
		hiddenSet[step] = true
	}
	return &Sequence{steps: steps, hidden: hiddenSet}, nil
}

// DefaultSequence is the production onboarding flow. Transient and
// full-screen-branded steps are hidden from the progress bar.
func DefaultSequence() *Sequence {
	seq, err := NewSequence(
		[]Step{
			StepWelcome,
			StepAuth,
			StepProfile,
			StepPhoto,
			StepQuestionsIntro,
			StepCategoriesPreview,
			StepPartner,
			StepLoading,
			StepSubscription,
			StepCompletion,
		},
		[]Step{
			StepAuth,
			StepPhoto,
			StepQuestionsIntro,
			StepCategoriesPreview,
			StepLoading,
			StepSubscription,
			StepCompletion,
		},
	)
	if err != nil {
		panic(err)
	}
	return seq
}

// Steps returns the ordered step list.
func (s *Sequence) Steps() []Step {
	out := make([]Step, len(s.steps))
	copy(out, s.steps)
	return out
}

// Contains reports whether step is part of the sequence.
func (s *Sequence) Contains(step Step) bool {
	return s.indexOf(step) >= 0
}

// First returns the opening step of the sequence.
func (s *Sequence) First() Step {
	return s.steps[0]
}

func (s *Sequence) indexOf(step Step) int {
	for i, candidate := range s.steps {
		if candidate == step {
			return i
		}
	}
	return -1
}

// visibleSteps returns the steps counted toward progress, in order.
func (s *Sequence) visibleSteps() []Step {
	visible := make([]Step, 0, len(s.steps))
	for _, step := range s.steps {
		if !s.hidden[step] {
			visible = append(visible, step)
		}
	}
	return visible
}

// State tracks the current position within a sequence.
type State struct {
	sequence *Sequence
	current  int
}

// NewState starts at the sequence's first step.
func NewState(sequence *Sequence) *State {
	return &State{sequence: sequence}
}

// ResumeState starts at a previously recorded step.
func ResumeState(sequence *Sequence, step Step) (*State, error) {
	idx := sequence.indexOf(step)
	if idx < 0 {
		return nil, ErrUnknownStep
	}
	return &State{sequence: sequence, current: idx}, nil
}

// Current returns the current step.
func (s *State) Current() Step {
	return s.sequence.steps[s.current]
}

// Next moves one step forward. No-op at the final step.
func (s *State) Next() {
	if s.current < len(s.sequence.steps)-1 {
		s.current++
	}
}

// Previous moves one step back. No-op at the first step.
func (s *State) Previous() {
	if s.current > 0 {
		s.current--
	}
}

// ForceGoTo jumps unconditionally to a step anywhere in the sequence.
// Used for resumption and subscription inheritance, never for ordinary
// navigation.
func (s *State) ForceGoTo(step Step) error {
	idx := s.sequence.indexOf(step)
	if idx < 0 {
		return ErrUnknownStep
	}
	s.current = idx
	return nil
}

// AtEnd reports whether the current step is the final one.
func (s *State) AtEnd() bool {
	return s.current == len(s.sequence.steps)-1
}

// Progress returns the position within the visible steps as a fraction
// in [0,1]. While the user is on a hidden step the value is 0: hidden
// steps do not count toward "step X of Y" and carry no position of
// their own.
func (s *State) Progress() float64 {
	visible := s.sequence.visibleSteps()
	if len(visible) == 0 {
		return 0
	}

	idx := -1
	for i, step := range visible {
		if step == s.Current() {
			idx = i
			break
		}
	}

	progress := float64(idx+1) / float64(len(visible))
	if progress < 0 {
		return 0
	}
	if progress > 1 {
		return 1
	}
	return progress
}
