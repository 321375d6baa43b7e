package sla

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/sla-service/internal/domain"
)

func tracking(id string, start time.Time, window time.Duration) domain.SLATracking {
	return domain.SLATracking{
		ID:        id,
		Status:    domain.TrackingStatusActive,
		StartTime: start,
		Deadline:  start.Add(window),
	}
}

func completed(t domain.SLATracking, at time.Time) domain.SLATracking {
	return Complete(t, at)
}

func TestReportEmpty(t *testing.T) {
	t.Parallel()

	m := Report(nil, baseTime)
	assert.Equal(t, Metrics{ComplianceRate: 100}, m)
}

func TestReportMixedCollection(t *testing.T) {
	t.Parallel()

	now := baseTime.Add(time.Hour)
	items := []domain.SLATracking{
		completed(tracking("met", baseTime, 4*time.Hour), baseTime.Add(2*time.Hour)),
		completed(tracking("late", baseTime, time.Hour), baseTime.Add(3*time.Hour)),
		tracking("open", baseTime, 8*time.Hour),
	}

	m := Report(items, now)
	assert.Equal(t, 3, m.Total)
	assert.Equal(t, 2, m.Completed)
	assert.Equal(t, 1, m.Met)
	assert.Equal(t, 1, m.Breached)
	assert.Equal(t, 1, m.Active)
	assert.Equal(t, 50, m.ComplianceRate)
	assert.Equal(t, 50, m.BreachRate)
}

func TestReportAtRiskCountsWarningAndCriticalOnly(t *testing.T) {
	t.Parallel()

	now := baseTime.Add(100 * time.Minute)
	items := []domain.SLATracking{
		tracking("on-track", now, 10*time.Hour),
		tracking("approaching", baseTime, 160*time.Minute), // ~38% remaining
		tracking("warning", baseTime, 120*time.Minute),     // ~17% remaining
		tracking("critical", baseTime, 105*time.Minute),    // ~5% remaining
		tracking("overdue", baseTime, 30*time.Minute),
	}

	m := Report(items, now)
	assert.Equal(t, 2, m.AtRisk)
	assert.Equal(t, 5, m.Active)
	// Overdue-but-open trackings do not count as breached until completed.
	assert.Zero(t, m.Breached)
}

func TestViolations(t *testing.T) {
	t.Parallel()

	now := baseTime.Add(2 * time.Hour)
	items := []domain.SLATracking{
		tracking("open-overdue", baseTime, time.Hour),
		tracking("open-fine", baseTime, 6*time.Hour),
		completed(tracking("done-late", baseTime, time.Hour), baseTime.Add(90*time.Minute)),
		completed(tracking("done-on-time", baseTime, 4*time.Hour), baseTime.Add(time.Hour)),
		{ID: "no-deadline", Status: domain.TrackingStatusActive, StartTime: baseTime},
	}

	got := Violations(items, now)
	ids := make([]string, 0, len(got))
	for _, v := range got {
		ids = append(ids, v.ID)
	}
	assert.Equal(t, []string{"open-overdue", "done-late"}, ids)
}

func TestApproaching(t *testing.T) {
	t.Parallel()

	now := baseTime.Add(80 * time.Minute)
	items := []domain.SLATracking{
		tracking("low", baseTime, 100*time.Minute),  // 20% remaining
		tracking("high", baseTime, 400*time.Minute), // 80% remaining
		tracking("overdue", baseTime, 30*time.Minute),
		completed(tracking("done", baseTime, 100*time.Minute), baseTime.Add(10*time.Minute)),
	}

	got := Approaching(items, 25, now)
	assert.Len(t, got, 1)
	assert.Equal(t, "low", got[0].ID)

	// Threshold is exclusive.
	exact := Approaching([]domain.SLATracking{tracking("edge", baseTime, 100*time.Minute)}, 20, now)
	assert.Empty(t, exact)
}
