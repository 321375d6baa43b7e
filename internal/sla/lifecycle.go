package sla

import (
	"time"

	"github.com/spec-kit/sla-service/internal/domain"
)

// Complete derives the terminal state for a tracking finished at now. It is
// a pure function: the input is not mutated and repeated calls with the same
// arguments yield the same result. A completion even one millisecond past
// the deadline counts as a breach.
func Complete(t domain.SLATracking, now time.Time) domain.SLATracking {
	completed := now
	t.CompletedAt = &completed
	t.Breached = completed.After(t.Deadline)
	if t.Breached {
		t.Status = domain.TrackingStatusBreached
	} else {
		t.Status = domain.TrackingStatusMet
	}
	millis := completed.Sub(t.StartTime).Milliseconds()
	t.CompletionMillis = &millis
	return t
}
