package sla

import (
	"time"

	"github.com/spec-kit/sla-service/internal/domain"
)

// Bucket is the transient display status derived for an active tracking.
type Bucket string

const (
	BucketOnTrack     Bucket = "on-track"
	BucketApproaching Bucket = "approaching"
	BucketWarning     Bucket = "warning"
	BucketCritical    Bucket = "critical"
	BucketBreached    Bucket = "breached"
)

// Status carries the display attributes for a classification bucket.
type Status struct {
	Bucket   Bucket
	Severity string
	Color    string
	Label    string
}

var bucketDisplay = map[Bucket]Status{
	BucketOnTrack:     {Bucket: BucketOnTrack, Severity: "info", Color: "success", Label: "On Track"},
	BucketApproaching: {Bucket: BucketApproaching, Severity: "info", Color: "info", Label: "Approaching Deadline"},
	BucketWarning:     {Bucket: BucketWarning, Severity: "warning", Color: "warning", Label: "SLA Warning"},
	BucketCritical:    {Bucket: BucketCritical, Severity: "critical", Color: "error", Label: "SLA Critical"},
	BucketBreached:    {Bucket: BucketBreached, Severity: "critical", Color: "error", Label: "SLA Breached"},
}

// Classify buckets an active tracking by the share of its SLA window still
// remaining. The window is the real start-to-deadline span, so the result
// stays consistent with the aggregator's at-risk selection. Classification
// decays as time advances; callers re-evaluate on every read.
func Classify(start, deadline, now time.Time) Status {
	remaining := TimeRemaining(deadline, now)
	if remaining.Overdue {
		return bucketDisplay[BucketBreached]
	}
	return bucketDisplay[bucketFor(PercentRemaining(start, deadline, now))]
}

// PercentRemaining returns the share of the window [start, deadline] still
// ahead of now, in percent. Degenerate windows count as fully elapsed.
func PercentRemaining(start, deadline, now time.Time) float64 {
	total := deadline.Sub(start)
	if total <= 0 {
		return 0
	}
	remaining := deadline.Sub(now)
	if remaining <= 0 {
		return 0
	}
	return float64(remaining) / float64(total) * 100
}

func bucketFor(percentRemaining float64) Bucket {
	switch {
	case percentRemaining < 10:
		return BucketCritical
	case percentRemaining < 25:
		return BucketWarning
	case percentRemaining < 50:
		return BucketApproaching
	default:
		return BucketOnTrack
	}
}

// ClassifyTracking classifies a tracking record, mapping terminal states
// directly: met trackings report on-track display, breached ones the breach
// bucket. Active trackings fall through to time-based classification.
func ClassifyTracking(t *domain.SLATracking, now time.Time) Status {
	switch t.Status {
	case domain.TrackingStatusBreached:
		return bucketDisplay[BucketBreached]
	case domain.TrackingStatusMet:
		return bucketDisplay[BucketOnTrack]
	default:
		return Classify(t.StartTime, t.Deadline, now)
	}
}
