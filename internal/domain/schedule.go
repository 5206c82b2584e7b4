package domain

import (
	"fmt"
	"slices"
	"time"
)

// TimeOfDay is a wall-clock time without a date, in UTC.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses a "HH:MM" string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: want HH:MM", s)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// On returns the instant at this time of day on the given date, in UTC.
func (t TimeOfDay) On(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour, t.Minute, 0, 0, time.UTC)
}

// Schedule describes when a template produces checklist occurrences.
//
// Which fields apply depends on Frequency: DaysOfWeek only for WEEKLY and
// BIWEEKLY, DayOfMonth only for MONTHLY, QUARTERLY and YEARLY. Dates are
// civil dates stored as UTC midnight; weeks start on Sunday.
type Schedule struct {
	Frequency   Frequency
	Interval    int
	DaysOfWeek  []time.Weekday
	DayOfMonth  int
	TimeOfDay   TimeOfDay
	AdvanceDays int
	StartDate   time.Time
	EndDate     *time.Time
	AutoAssign  bool
}

// UsesDaysOfWeek reports whether the frequency selects dates by weekday.
func (s Schedule) UsesDaysOfWeek() bool {
	return s.Frequency == FrequencyWeekly || s.Frequency == FrequencyBiweekly
}

// UsesDayOfMonth reports whether the frequency selects dates by day of month.
func (s Schedule) UsesDayOfMonth() bool {
	switch s.Frequency {
	case FrequencyMonthly, FrequencyQuarterly, FrequencyYearly:
		return true
	}
	return false
}

// Normalize sorts and deduplicates DaysOfWeek and truncates the date
// fields to UTC midnight.
func (s *Schedule) Normalize() {
	slices.Sort(s.DaysOfWeek)
	s.DaysOfWeek = slices.Compact(s.DaysOfWeek)
	s.StartDate = DateOf(s.StartDate)
	if s.EndDate != nil {
		d := DateOf(*s.EndDate)
		s.EndDate = &d
	}
}

// Validate checks the schedule for internal consistency. It returns a
// ValidationError listing every violated field.
func (s Schedule) Validate() error {
	var errs []FieldError

	if !s.Frequency.IsValid() {
		errs = append(errs, FieldError{Field: "frequency", Message: fmt.Sprintf("unknown frequency %q", s.Frequency)})
	}
	if s.Interval < 1 {
		errs = append(errs, FieldError{Field: "interval", Message: "must be at least 1"})
	}
	if s.AdvanceDays < 0 || s.AdvanceDays > 366 {
		errs = append(errs, FieldError{Field: "advance_days", Message: "must be between 0 and 366"})
	}
	if s.StartDate.IsZero() {
		errs = append(errs, FieldError{Field: "start_date", Message: "is required"})
	}
	if s.EndDate != nil && s.EndDate.Before(s.StartDate) {
		errs = append(errs, FieldError{Field: "end_date", Message: "must not be before start_date"})
	}

	switch {
	case s.UsesDaysOfWeek():
		if len(s.DaysOfWeek) == 0 {
			errs = append(errs, FieldError{Field: "days_of_week", Message: "is required for weekly frequencies"})
		}
		for _, d := range s.DaysOfWeek {
			if d < time.Sunday || d > time.Saturday {
				errs = append(errs, FieldError{Field: "days_of_week", Message: fmt.Sprintf("invalid weekday %d", d)})
				break
			}
		}
		if s.DayOfMonth != 0 {
			errs = append(errs, FieldError{Field: "day_of_month", Message: "not applicable to weekly frequencies"})
		}
	case s.UsesDayOfMonth():
		if s.DayOfMonth < 1 || s.DayOfMonth > 31 {
			errs = append(errs, FieldError{Field: "day_of_month", Message: "must be between 1 and 31"})
		}
		if len(s.DaysOfWeek) != 0 {
			errs = append(errs, FieldError{Field: "days_of_week", Message: "not applicable to monthly frequencies"})
		}
	default:
		if len(s.DaysOfWeek) != 0 {
			errs = append(errs, FieldError{Field: "days_of_week", Message: "not applicable to daily frequency"})
		}
		if s.DayOfMonth != 0 {
			errs = append(errs, FieldError{Field: "day_of_month", Message: "not applicable to daily frequency"})
		}
	}

	if len(errs) > 0 {
		return NewValidationErrors(errs)
	}
	return nil
}

// DateOf truncates an instant to its civil date, UTC midnight.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
