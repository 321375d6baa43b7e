package sla

import (
	"sort"
	"time"

	"github.com/spec-kit/sla-service/internal/domain"
)

// Escalation is an advisory recommendation for an overdue or critical
// tracking. Level is 1-based and ordered by severity.
type Escalation struct {
	Level       int    `json:"level"`
	Action      string `json:"action"`
	Description string `json:"description"`
	Urgent      bool   `json:"urgent"`
}

// defaultEscalationLevels backs EscalationFor when the configuration carries
// no ladder of its own.
var defaultEscalationLevels = []domain.EscalationLevel{
	{ThresholdHours: 0, Action: "notify_team_lead", Description: "Escalate to team lead", Urgent: false},
	{ThresholdHours: 4, Action: "notify_manager", Description: "Escalate to manager", Urgent: true},
	{ThresholdHours: 24, Action: "notify_senior_management", Description: "Escalate to senior management", Urgent: true},
}

// EscalationFor suggests an escalation for a tracking. Overdue trackings
// match the highest configured level whose hours-overdue threshold has been
// crossed. Trackings that are still inside the window but classified
// critical get a level-1 advisory. Everything else returns nil.
func EscalationFor(t *domain.SLATracking, levels []domain.EscalationLevel, now time.Time) *Escalation {
	if t == nil || t.Deadline.IsZero() {
		return nil
	}
	if len(levels) == 0 {
		levels = defaultEscalationLevels
	}

	remaining := TimeRemaining(t.Deadline, now)
	if remaining.Overdue {
		overdueHours := now.Sub(t.Deadline).Hours()
		ordered := make([]domain.EscalationLevel, len(levels))
		copy(ordered, levels)
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].ThresholdHours < ordered[j].ThresholdHours
		})
		matched := -1
		for i, level := range ordered {
			if overdueHours >= level.ThresholdHours {
				matched = i
			}
		}
		if matched < 0 {
			matched = 0
		}
		level := ordered[matched]
		return &Escalation{
			Level:       matched + 1,
			Action:      level.Action,
			Description: level.Description,
			Urgent:      level.Urgent,
		}
	}

	if t.CompletedAt == nil && Classify(t.StartTime, t.Deadline, now).Bucket == BucketCritical {
		return &Escalation{
			Level:       1,
			Action:      "notify_assignee",
			Description: "Requires immediate attention",
			Urgent:      false,
		}
	}
	return nil
}
