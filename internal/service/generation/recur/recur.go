package recur

import (
	"time"

	"github.com/opsrota/opsrota-backend/internal/domain"
)

// Resolve returns every occurrence date of the schedule within [from, to],
// both bounds inclusive, in ascending order. Bounds are truncated to civil
// dates and further clamped to the schedule's active window, so a date
// before StartDate or after EndDate is never produced. The result is nil
// when the clamped window is empty.
//
// All frequencies anchor on StartDate: daily emits StartDate plus every
// Interval days, weekly frequencies count Sunday-started weeks from
// StartDate's week, monthly frequencies count months from StartDate's
// month and clamp DayOfMonth to the month's last day.
func Resolve(s domain.Schedule, from, to time.Time) []time.Time {
	if s.Interval < 1 {
		return nil
	}

	lo := domain.DateOf(from)
	hi := domain.DateOf(to)
	if start := domain.DateOf(s.StartDate); lo.Before(start) {
		lo = start
	}
	if s.EndDate != nil {
		if end := domain.DateOf(*s.EndDate); hi.After(end) {
			hi = end
		}
	}
	if hi.Before(lo) {
		return nil
	}

	switch s.Frequency {
	case domain.FrequencyDaily:
		return resolveDaily(s, lo, hi)
	case domain.FrequencyWeekly:
		return resolveWeekly(s, lo, hi, s.Interval)
	case domain.FrequencyBiweekly:
		return resolveWeekly(s, lo, hi, 2*s.Interval)
	case domain.FrequencyMonthly:
		return resolveMonthly(s, lo, hi, s.Interval)
	case domain.FrequencyQuarterly:
		return resolveMonthly(s, lo, hi, 3*s.Interval)
	case domain.FrequencyYearly:
		return resolveMonthly(s, lo, hi, 12*s.Interval)
	}
	return nil
}

// Next returns the first occurrence date strictly after the date of the
// given instant. The second return value is false when the schedule has
// no further occurrences, which happens once EndDate is behind us.
func Next(s domain.Schedule, after time.Time) (time.Time, bool) {
	from := domain.DateOf(after).AddDate(0, 0, 1)
	if start := domain.DateOf(s.StartDate); from.Before(start) {
		from = start
	}
	occs := Resolve(s, from, from.AddDate(0, 0, horizonDays(s)))
	if len(occs) == 0 {
		return time.Time{}, false
	}
	return occs[0], true
}

func resolveDaily(s domain.Schedule, lo, hi time.Time) []time.Time {
	start := domain.DateOf(s.StartDate)
	k := daysBetween(start, lo)
	if rem := k % s.Interval; rem != 0 {
		k += s.Interval - rem
	}

	var out []time.Time
	for d := start.AddDate(0, 0, k); !d.After(hi); d = d.AddDate(0, 0, s.Interval) {
		out = append(out, d)
	}
	return out
}

func resolveWeekly(s domain.Schedule, lo, hi time.Time, strideWeeks int) []time.Time {
	anchor := weekStart(domain.DateOf(s.StartDate))
	wk := daysBetween(anchor, weekStart(lo)) / 7
	if rem := wk % strideWeeks; rem != 0 {
		wk += strideWeeks - rem
	}

	var out []time.Time
	for week := anchor.AddDate(0, 0, wk*7); !week.After(hi); week = week.AddDate(0, 0, strideWeeks*7) {
		for _, wd := range s.DaysOfWeek {
			d := week.AddDate(0, 0, int(wd))
			if d.Before(lo) || d.After(hi) {
				continue
			}
			out = append(out, d)
		}
	}
	return out
}

func resolveMonthly(s domain.Schedule, lo, hi time.Time, strideMonths int) []time.Time {
	start := domain.DateOf(s.StartDate)
	anchor := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	k := monthsBetween(anchor, lo)
	if rem := k % strideMonths; rem != 0 {
		k += strideMonths - rem
	}

	var out []time.Time
	for ; ; k += strideMonths {
		month := anchor.AddDate(0, k, 0)
		if month.After(hi) {
			break
		}
		d := clampDay(month, s.DayOfMonth)
		if d.Before(lo) || d.After(hi) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// weekStart returns the Sunday that opens the week containing d.
func weekStart(d time.Time) time.Time {
	return d.AddDate(0, 0, -int(d.Weekday()))
}

func daysBetween(a, b time.Time) int {
	return int(b.Sub(a) / (24 * time.Hour))
}

func monthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

// clampDay places day inside the month that starts at monthStart, pulling
// it back to the month's last day when the month is too short: day 31 in
// February becomes the 28th or 29th.
func clampDay(monthStart time.Time, day int) time.Time {
	if last := daysInMonth(monthStart); day > last {
		day = last
	}
	return time.Date(monthStart.Year(), monthStart.Month(), day, 0, 0, 0, 0, time.UTC)
}

func daysInMonth(monthStart time.Time) int {
	return time.Date(monthStart.Year(), monthStart.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func horizonDays(s domain.Schedule) int {
	switch s.Frequency {
	case domain.FrequencyDaily:
		return 2*s.Interval + 1
	case domain.FrequencyWeekly:
		return 14*s.Interval + 7
	case domain.FrequencyBiweekly:
		return 28*s.Interval + 7
	case domain.FrequencyMonthly:
		return 62*s.Interval + 31
	case domain.FrequencyQuarterly:
		return 186*s.Interval + 31
	case domain.FrequencyYearly:
		return 732*s.Interval + 31
	}
	return 366
}
