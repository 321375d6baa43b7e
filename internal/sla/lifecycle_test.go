package sla

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/sla-service/internal/domain"
)

func TestCompleteBeforeDeadline(t *testing.T) {
	t.Parallel()

	in := tracking("t1", baseTime, 4*time.Hour)
	done := Complete(in, baseTime.Add(time.Hour))

	assert.Equal(t, domain.TrackingStatusMet, done.Status)
	assert.False(t, done.Breached)
	require.NotNil(t, done.CompletedAt)
	assert.Equal(t, baseTime.Add(time.Hour), *done.CompletedAt)
	require.NotNil(t, done.CompletionMillis)
	assert.Equal(t, time.Hour.Milliseconds(), *done.CompletionMillis)
}

func TestCompleteDeadlineBoundary(t *testing.T) {
	t.Parallel()

	in := tracking("t1", baseTime, time.Hour)
	deadline := in.Deadline

	exact := Complete(in, deadline)
	assert.Equal(t, domain.TrackingStatusMet, exact.Status)
	assert.False(t, exact.Breached)

	late := Complete(in, deadline.Add(time.Millisecond))
	assert.Equal(t, domain.TrackingStatusBreached, late.Status)
	assert.True(t, late.Breached)
}

func TestCompleteDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	in := tracking("t1", baseTime, time.Hour)
	_ = Complete(in, baseTime.Add(2*time.Hour))

	assert.Equal(t, domain.TrackingStatusActive, in.Status)
	assert.Nil(t, in.CompletedAt)
	assert.Nil(t, in.CompletionMillis)
	assert.False(t, in.Breached)
}
