package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuccessorWalksTheHappyPath(t *testing.T) {
	want := []Status{
		StatusAccepted,
		StatusMechanicAssigned,
		StatusMechanicOnWay,
		StatusMechanicArrived,
		StatusDiagnosing,
		StatusQuoteSent,
		StatusQuoteAccepted,
		StatusRepairing,
		StatusCompleted,
	}

	s := StatusPending
	for _, expected := range want {
		next, ok := s.Successor()
		require.True(t, ok, "expected a successor for %s", s)
		assert.Equal(t, expected, next)
		s = next
	}

	_, ok := StatusCompleted.Successor()
	assert.False(t, ok, "completed must have no successor")
	_, ok = StatusCancelled.Successor()
	assert.False(t, ok, "cancelled must have no successor")
}

func TestCanAdvanceTo(t *testing.T) {
	assert.True(t, StatusPending.CanAdvanceTo(StatusAccepted))
	assert.True(t, StatusDiagnosing.CanAdvanceTo(StatusQuoteSent))
	assert.True(t, StatusQuoteAccepted.CanAdvanceTo(StatusRepairing))

	// the quote stage may be skipped when the repair needs no quote
	assert.True(t, StatusDiagnosing.CanAdvanceTo(StatusRepairing))

	// no other skipping
	assert.False(t, StatusPending.CanAdvanceTo(StatusMechanicAssigned))
	assert.False(t, StatusAccepted.CanAdvanceTo(StatusDiagnosing))
	assert.False(t, StatusMechanicArrived.CanAdvanceTo(StatusQuoteSent))

	// no going back
	assert.False(t, StatusRepairing.CanAdvanceTo(StatusDiagnosing))
	assert.False(t, StatusAccepted.CanAdvanceTo(StatusPending))

	// quote acceptance has its own entry point
	assert.False(t, StatusQuoteSent.CanAdvanceTo(StatusQuoteAccepted))

	// nothing leaves a terminal status
	assert.False(t, StatusCompleted.CanAdvanceTo(StatusAccepted))
	assert.False(t, StatusCancelled.CanAdvanceTo(StatusAccepted))
}

func TestCanCancel(t *testing.T) {
	for _, s := range []Status{
		StatusPending, StatusAccepted, StatusMechanicAssigned, StatusMechanicOnWay,
		StatusMechanicArrived, StatusDiagnosing, StatusQuoteSent, StatusQuoteAccepted,
		StatusRepairing,
	} {
		assert.True(t, s.CanCancel(), "%s should be cancellable", s)
	}

	assert.False(t, StatusCompleted.CanCancel())
	assert.False(t, StatusCancelled.CanCancel())
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("mechanic_on_way")
	require.NoError(t, err)
	assert.Equal(t, StatusMechanicOnWay, s)

	s, err = ParseStatus("cancelled")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, s)

	_, err = ParseStatus("teleporting")
	assert.Error(t, err)
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusRepairing.IsTerminal())
}
