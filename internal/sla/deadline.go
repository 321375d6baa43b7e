package sla

import (
	"fmt"
	"strings"
	"time"

	"github.com/spec-kit/sla-service/internal/domain"
)

// Deadline computes the absolute deadline for an SLA window starting at
// start. The spec's single unit is scaled by the priority multiplier, so an
// urgent 2h SLA comes due after one hour while a low-priority one gets three.
func Deadline(start time.Time, spec domain.DurationSpec, priority domain.Priority) (time.Time, error) {
	window, err := spec.Window()
	if err != nil {
		return time.Time{}, err
	}
	scaled := time.Duration(float64(window) * priority.Multiplier())
	return start.Add(scaled), nil
}

// Remaining describes time left until (or elapsed since) a deadline.
type Remaining struct {
	Overdue      bool
	Milliseconds int64
	Days         int
	Hours        int
	Minutes      int
	Formatted    string
}

// TimeRemaining decomposes the distance between now and deadline. Overdue
// deadlines report the absolute overshoot in Milliseconds and format as
// "Overdue"; otherwise the formatted string concatenates the non-zero
// components, always showing minutes when days and hours are both zero so
// the string is never empty.
func TimeRemaining(deadline, now time.Time) Remaining {
	diff := deadline.Sub(now)
	if diff < 0 {
		elapsed := -diff
		return Remaining{
			Overdue:      true,
			Milliseconds: elapsed.Milliseconds(),
			Hours:        int(elapsed / time.Hour),
			Minutes:      int((elapsed % time.Hour) / time.Minute),
			Formatted:    "Overdue",
		}
	}

	days := int(diff / (24 * time.Hour))
	hours := int((diff % (24 * time.Hour)) / time.Hour)
	minutes := int((diff % time.Hour) / time.Minute)

	parts := make([]string, 0, 3)
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}

	return Remaining{
		Milliseconds: diff.Milliseconds(),
		Days:         days,
		Hours:        hours,
		Minutes:      minutes,
		Formatted:    strings.Join(parts, " "),
	}
}
