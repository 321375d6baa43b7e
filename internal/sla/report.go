package sla

import (
	"math"
	"time"

	"github.com/spec-kit/sla-service/internal/domain"
)

// Metrics summarizes a collection of trackings for dashboard cards.
type Metrics struct {
	Total          int `json:"total"`
	Completed      int `json:"completed"`
	Met            int `json:"met"`
	Breached       int `json:"breached"`
	Active         int `json:"active"`
	AtRisk         int `json:"at_risk"`
	ComplianceRate int `json:"compliance_rate"`
	BreachRate     int `json:"breach_rate"`
}

// Violations returns every tracking that missed its deadline: completed ones
// that finished late, and still-open ones whose deadline has already passed.
// Input order is preserved.
func Violations(items []domain.SLATracking, now time.Time) []domain.SLATracking {
	violations := make([]domain.SLATracking, 0)
	for _, item := range items {
		if item.Deadline.IsZero() {
			continue
		}
		if item.CompletedAt != nil {
			if item.CompletedAt.After(item.Deadline) {
				violations = append(violations, item)
			}
			continue
		}
		if now.After(item.Deadline) {
			violations = append(violations, item)
		}
	}
	return violations
}

// Approaching returns open, not-yet-overdue trackings whose remaining share
// of the SLA window has dropped below thresholdPercent. The window basis is
// StartTime, matching the classifier.
func Approaching(items []domain.SLATracking, thresholdPercent float64, now time.Time) []domain.SLATracking {
	approaching := make([]domain.SLATracking, 0)
	for _, item := range items {
		if item.Deadline.IsZero() || item.CompletedAt != nil {
			continue
		}
		remaining := TimeRemaining(item.Deadline, now)
		if remaining.Overdue {
			continue
		}
		if PercentRemaining(item.StartTime, item.Deadline, now) < thresholdPercent {
			approaching = append(approaching, item)
		}
	}
	return approaching
}

// Report computes the canonical compliance summary. Compliance and breach
// rates are percentages of completed trackings; an empty or all-active
// collection reports full compliance so dashboards render sensibly before
// any completions exist.
func Report(items []domain.SLATracking, now time.Time) Metrics {
	m := Metrics{Total: len(items), ComplianceRate: 100}
	for i := range items {
		item := &items[i]
		if item.CompletedAt != nil {
			m.Completed++
		}
		switch item.Status {
		case domain.TrackingStatusMet:
			m.Met++
		case domain.TrackingStatusActive:
			m.Active++
			if !item.Deadline.IsZero() {
				switch ClassifyTracking(item, now).Bucket {
				case BucketCritical, BucketWarning:
					m.AtRisk++
				}
			}
		}
		if item.Breached {
			m.Breached++
		}
	}
	if m.Completed > 0 {
		m.ComplianceRate = roundRate(m.Met, m.Completed)
		m.BreachRate = roundRate(m.Breached, m.Completed)
	}
	return m
}

func roundRate(part, whole int) int {
	return int(math.Round(float64(part) / float64(whole) * 100))
}
