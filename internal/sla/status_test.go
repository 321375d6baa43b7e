package sla

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/sla-service/internal/domain"
)

func TestClassifyBuckets(t *testing.T) {
	t.Parallel()

	start := baseTime
	deadline := start.Add(100 * time.Minute)

	tests := []struct {
		name    string
		elapsed time.Duration
		want    Bucket
	}{
		{"fresh window", 0, BucketOnTrack},
		{"half remaining", 50 * time.Minute, BucketOnTrack},
		{"just under half", 51 * time.Minute, BucketApproaching},
		{"just under quarter", 76 * time.Minute, BucketWarning},
		{"under ten percent", 91 * time.Minute, BucketCritical},
		{"past deadline", 101 * time.Minute, BucketBreached},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status := Classify(start, deadline, start.Add(tc.elapsed))
			assert.Equal(t, tc.want, status.Bucket)
		})
	}
}

// Classification never moves backward as the clock advances on a fixed
// window.
func TestClassifyMonotonicDecay(t *testing.T) {
	t.Parallel()

	start := baseTime
	deadline := start.Add(10 * time.Hour)

	rank := map[Bucket]int{
		BucketOnTrack:     0,
		BucketApproaching: 1,
		BucketWarning:     2,
		BucketCritical:    3,
		BucketBreached:    4,
	}

	previous := -1
	for elapsed := time.Duration(0); elapsed <= 11*time.Hour; elapsed += 5 * time.Minute {
		bucket := Classify(start, deadline, start.Add(elapsed)).Bucket
		assert.GreaterOrEqual(t, rank[bucket], previous, "bucket regressed at %s", elapsed)
		previous = rank[bucket]
	}
}

func TestClassifyDisplayAttributes(t *testing.T) {
	t.Parallel()

	breached := Classify(baseTime, baseTime.Add(time.Hour), baseTime.Add(2*time.Hour))
	assert.Equal(t, "critical", breached.Severity)
	assert.Equal(t, "SLA Breached", breached.Label)

	onTrack := Classify(baseTime, baseTime.Add(time.Hour), baseTime)
	assert.Equal(t, "success", onTrack.Color)
	assert.Equal(t, "On Track", onTrack.Label)
}

func TestClassifyTrackingTerminalStates(t *testing.T) {
	t.Parallel()

	now := baseTime.Add(48 * time.Hour)
	met := &domain.SLATracking{
		Status:    domain.TrackingStatusMet,
		StartTime: baseTime,
		Deadline:  baseTime.Add(time.Hour),
	}
	assert.Equal(t, BucketOnTrack, ClassifyTracking(met, now).Bucket)

	breached := &domain.SLATracking{
		Status:    domain.TrackingStatusBreached,
		StartTime: baseTime,
		Deadline:  baseTime.Add(time.Hour),
	}
	assert.Equal(t, BucketBreached, ClassifyTracking(breached, now).Bucket)
}

func TestPercentRemainingDegenerateWindow(t *testing.T) {
	t.Parallel()

	assert.Zero(t, PercentRemaining(baseTime, baseTime, baseTime))
	assert.Zero(t, PercentRemaining(baseTime.Add(time.Hour), baseTime, baseTime))
}
