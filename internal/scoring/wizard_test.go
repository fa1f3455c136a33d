package scoring

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWizardWalkthrough(t *testing.T) {
	wizard := NewWizard([]string{"A", "B"})
	state := wizard.Start()
	assert.Equal(t, "A", wizard.Current(state))

	state, err := wizard.Answer(state, WizardInput{Done: true, Detail: "legs"})
	require.NoError(t, err)
	assert.Equal(t, "B", wizard.Current(state))

	state, err = wizard.Answer(state, WizardInput{Done: false})
	require.NoError(t, err)
	assert.Equal(t, StepGoal, wizard.Current(state))

	state, err = wizard.Answer(state, WizardInput{Text: "ship it"})
	require.NoError(t, err)
	state, err = wizard.Answer(state, WizardInput{Text: "good day"})
	require.NoError(t, err)
	assert.True(t, wizard.Done(state))

	_, err = wizard.Answer(state, WizardInput{})
	assert.ErrorIs(t, err, ErrWizardComplete)

	entry, err := wizard.Entry(state, day("2025-01-06"))
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"A": true, "B": false}, entry.Habits)
	assert.Equal(t, "legs", entry.Details["A"])
	assert.Equal(t, "ship it", entry.NextGoal)
	assert.Equal(t, "good day", entry.Reflection)
}

func TestWizardRejectsMissingDetail(t *testing.T) {
	wizard := NewWizard([]string{"A"})
	start := wizard.Start()

	state, err := wizard.Answer(start, WizardInput{Done: true, Detail: " "})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, start, state)
}

func TestWizardTransitionsDoNotMutateInput(t *testing.T) {
	wizard := NewWizard([]string{"A", "B"})
	start := wizard.Start()

	next, err := wizard.Answer(start, WizardInput{Done: true, Detail: "x"})
	require.NoError(t, err)

	assert.Empty(t, start.Answers)
	assert.Len(t, next.Answers, 1)

	back := wizard.Back(next)
	assert.Equal(t, 0, back.Step)
	assert.Equal(t, next.Answers, back.Answers)
	assert.Equal(t, 0, wizard.Back(back).Step)
}

func TestWizardEntryRequiresReview(t *testing.T) {
	wizard := NewWizard([]string{"A"})
	_, err := wizard.Entry(wizard.Start(), day("2025-01-06"))
	assert.ErrorIs(t, err, ErrWizardIncomplete)
}
