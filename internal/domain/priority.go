package domain

import "strings"

// Priority enumerates SLA urgency. Lower multiplier means a shorter
// effective deadline, so urgent items get the strictest SLA.
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

var priorityMultipliers = map[Priority]float64{
	PriorityUrgent: 0.5,
	PriorityHigh:   0.75,
	PriorityMedium: 1.0,
	PriorityLow:    1.5,
}

// Multiplier resolves the deadline scaling factor for the priority.
// Lookup is case-insensitive; unknown values fall back to medium's 1.0.
func (p Priority) Multiplier() float64 {
	if m, ok := priorityMultipliers[Priority(strings.ToLower(string(p)))]; ok {
		return m
	}
	return priorityMultipliers[PriorityMedium]
}

// Normalize lowercases the priority and maps unknown values to medium.
func (p Priority) Normalize() Priority {
	lowered := Priority(strings.ToLower(string(p)))
	if _, ok := priorityMultipliers[lowered]; ok {
		return lowered
	}
	return PriorityMedium
}
