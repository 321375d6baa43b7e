package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDurationSpecValidate(t *testing.T) {
	t.Parallel()

	hours := 2.0
	days := 1.0
	zero := 0.0

	assert.NoError(t, HoursSpec(2, "").Validate())
	// An explicit zero still counts as the chosen unit.
	assert.NoError(t, DurationSpec{Hours: &zero}.Validate())

	assert.ErrorIs(t, DurationSpec{}.Validate(), ErrInvalidDurationSpec)
	assert.ErrorIs(t, DurationSpec{Hours: &hours, Days: &days}.Validate(), ErrInvalidDurationSpec)
}

func TestDurationSpecWindow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		spec DurationSpec
		want time.Duration
	}{
		{"hours", HoursSpec(2, ""), 2 * time.Hour},
		{"days", DaysSpec(1.5, ""), 36 * time.Hour},
		{"minutes", MinutesSpec(90, ""), 90 * time.Minute},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.spec.Window()
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := DurationSpec{}.Window()
	assert.ErrorIs(t, err, ErrInvalidDurationSpec)
}

func TestPriorityNormalize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, PriorityUrgent, Priority("URGENT").Normalize())
	assert.Equal(t, PriorityMedium, Priority("").Normalize())
	assert.Equal(t, PriorityMedium, Priority("whenever").Normalize())
	assert.InDelta(t, 1.5, PriorityLow.Multiplier(), 0.0001)
}
