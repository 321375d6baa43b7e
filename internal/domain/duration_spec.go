package domain

import (
	"errors"
	"time"
)

// ErrInvalidDurationSpec indicates a spec that does not set exactly one unit.
var ErrInvalidDurationSpec = errors.New("duration spec must set exactly one of hours, days or minutes")

// DurationSpec expresses an SLA's allotted time in a single unit. Pointer
// fields distinguish "not set" from an explicit zero.
type DurationSpec struct {
	Hours       *float64 `json:"hours,omitempty"`
	Days        *float64 `json:"days,omitempty"`
	Minutes     *float64 `json:"minutes,omitempty"`
	Description string   `json:"description,omitempty"`
}

// Validate rejects specs with zero or multiple units set. The legacy
// behavior of silently picking hours over days over minutes (and silently
// returning the start time when nothing was set) produced wrong deadlines
// without any signal, so it is an error here.
func (s DurationSpec) Validate() error {
	set := 0
	for _, unit := range []*float64{s.Hours, s.Days, s.Minutes} {
		if unit != nil {
			set++
		}
	}
	if set != 1 {
		return ErrInvalidDurationSpec
	}
	return nil
}

// Window returns the unscaled duration the spec expresses.
func (s DurationSpec) Window() (time.Duration, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}
	switch {
	case s.Hours != nil:
		return time.Duration(*s.Hours * float64(time.Hour)), nil
	case s.Days != nil:
		return time.Duration(*s.Days * 24 * float64(time.Hour)), nil
	default:
		return time.Duration(*s.Minutes * float64(time.Minute)), nil
	}
}

// HoursSpec is a convenience constructor used by templates and tests.
func HoursSpec(hours float64, description string) DurationSpec {
	return DurationSpec{Hours: &hours, Description: description}
}

// DaysSpec is a convenience constructor used by templates and tests.
func DaysSpec(days float64, description string) DurationSpec {
	return DurationSpec{Days: &days, Description: description}
}

// MinutesSpec is a convenience constructor used by templates and tests.
func MinutesSpec(minutes float64, description string) DurationSpec {
	return DurationSpec{Minutes: &minutes, Description: description}
}
