package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSequence_RejectsEmptyAndDuplicates(t *testing.T) {
	_, err := NewSequence(nil, nil)
	require.Error(t, err)

	_, err = NewSequence([]Step{StepWelcome, StepWelcome}, nil)
	require.Error(t, err)
}

func TestDefaultSequence_StartsAtWelcome(t *testing.T) {
	seq := DefaultSequence()
	assert.Equal(t, StepWelcome, seq.First())
	assert.True(t, seq.Contains(StepSubscription))
	assert.False(t, seq.Contains(Step("billing")))
}

func TestState_NextAndPreviousStopAtBoundaries(t *testing.T) {
	seq, err := NewSequence([]Step{StepWelcome, StepProfile, StepPartner}, nil)
	require.NoError(t, err)
	state := NewState(seq)

	state.Previous()
	assert.Equal(t, StepWelcome, state.Current(), "previous at start is a no-op")

	state.Next()
	state.Next()
	assert.Equal(t, StepPartner, state.Current())
	assert.True(t, state.AtEnd())

	state.Next()
	assert.Equal(t, StepPartner, state.Current(), "next at end is a no-op")

	state.Previous()
	assert.Equal(t, StepProfile, state.Current())
}

func TestState_ForceGoTo(t *testing.T) {
	state := NewState(DefaultSequence())

	require.NoError(t, state.ForceGoTo(StepSubscription))
	assert.Equal(t, StepSubscription, state.Current())

	require.NoError(t, state.ForceGoTo(StepCompletion))
	assert.Equal(t, StepCompletion, state.Current())

	err := state.ForceGoTo(Step("billing"))
	assert.ErrorIs(t, err, ErrUnknownStep)
	assert.Equal(t, StepCompletion, state.Current(), "failed jump does not move")
}

func TestResumeState(t *testing.T) {
	state, err := ResumeState(DefaultSequence(), StepPartner)
	require.NoError(t, err)
	assert.Equal(t, StepPartner, state.Current())

	_, err = ResumeState(DefaultSequence(), Step("billing"))
	assert.ErrorIs(t, err, ErrUnknownStep)
}

func TestProgress_VisibleStepsOnly(t *testing.T) {
	// welcome, profile, partner are visible: 3 countable positions.
	state := NewState(DefaultSequence())
	assert.InDelta(t, 1.0/3.0, state.Progress(), 1e-9)

	require.NoError(t, state.ForceGoTo(StepProfile))
	assert.InDelta(t, 2.0/3.0, state.Progress(), 1e-9)

	require.NoError(t, state.ForceGoTo(StepPartner))
	assert.InDelta(t, 1.0, state.Progress(), 1e-9)
}

func TestProgress_HiddenStepReadsZero(t *testing.T) {
	state := NewState(DefaultSequence())
	require.NoError(t, state.ForceGoTo(StepLoading))
	assert.Zero(t, state.Progress())
}

func TestProgress_AllHiddenIsZero(t *testing.T) {
	seq, err := NewSequence([]Step{StepLoading, StepCompletion}, []Step{StepLoading, StepCompletion})
	require.NoError(t, err)
	assert.Zero(t, NewState(seq).Progress())
}

func TestProgress_Clamped(t *testing.T) {
	seq, err := NewSequence([]Step{StepWelcome}, nil)
	require.NoError(t, err)
	progress := NewState(seq).Progress()
	assert.GreaterOrEqual(t, progress, 0.0)
	assert.LessOrEqual(t, progress, 1.0)
}
