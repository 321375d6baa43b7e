package domain

import "time"

// TrackingStatus enumerates lifecycle states for SLA trackings.
type TrackingStatus string

const (
	TrackingStatusActive   TrackingStatus = "active"
	TrackingStatusMet      TrackingStatus = "met"
	TrackingStatusBreached TrackingStatus = "breached"
)

// EntityType values understood by callers. The engine treats the type as an
// opaque string; these constants exist for template seeding and tests.
const (
	EntityTypeLead  = "lead"
	EntityTypeCase  = "case"
	EntityTypeTask  = "task"
	EntityTypeEmail = "email"
	EntityTypeClaim = "claim"
)

// SLATracking is the aggregate for a single deadline commitment attached to
// a tracked business entity. Deadline is computed once at creation and is
// never recalculated on priority change.
type SLATracking struct {
	ID               string
	EntityType       string
	EntityID         string
	SLAType          string
	Description      string
	Priority         Priority
	StartTime        time.Time
	Deadline         time.Time
	Status           TrackingStatus
	Breached         bool
	CompletedAt      *time.Time
	CompletionMillis *int64
	Config           DurationSpec
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Completed reports whether the tracking has reached a terminal state.
func (t *SLATracking) Completed() bool {
	return t.CompletedAt != nil
}
