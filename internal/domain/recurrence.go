package domain

import (
	"errors"
	"time"
)

type RecurrenceMode string

const (
	RecurrenceNone        RecurrenceMode = "none"
	RecurrenceDaily       RecurrenceMode = "daily"
	RecurrenceWeekly      RecurrenceMode = "weekly"
	RecurrenceMonthly     RecurrenceMode = "monthly"
	RecurrenceWeeklyByDay RecurrenceMode = "weeklyByDay"
)

// MaxOccurrences caps every expansion. Hitting the cap truncates silently;
// it is not an error.
const MaxOccurrences = 180

const DateLayout = "2006-01-02"

// DefaultUntilMonths is the horizon applied when a recurrence carries no
// explicit until date.
const DefaultUntilMonths = 3

type Recurrence struct {
	Mode RecurrenceMode
	// Until is an inclusive ISO end date. Empty means startDate plus
	// DefaultUntilMonths.
	Until string
	// WeekDays selects weekdays for RecurrenceWeeklyByDay, 0=Sunday
	// through 6=Saturday.
	WeekDays []int
}

// ExpandDates turns a start date and an optional recurrence into the ordered
// list of occurrence dates. It is pure and deterministic: identical input
// always yields an identical list.
func ExpandDates(startDate string, r *Recurrence) ([]string, error) {
	start, err := time.Parse(DateLayout, startDate)
	if err != nil {
		return nil, errors.New("invalid start date")
	}

	if r == nil || r.Mode == "" || r.Mode == RecurrenceNone {
		return []string{startDate}, nil
	}

	until := start.AddDate(0, DefaultUntilMonths, 0)
	if r.Until != "" {
		u, err := time.Parse(DateLayout, r.Until)
		if err != nil {
			return nil, errors.New("invalid until date")
		}
		until = u
	}

	switch r.Mode {
	case RecurrenceDaily:
		return stepDates(start, until, func(t time.Time) time.Time {
			return t.AddDate(0, 0, 1)
		}), nil
	case RecurrenceWeekly:
		return stepDates(start, until, func(t time.Time) time.Time {
			return t.AddDate(0, 0, 7)
		}), nil
	case RecurrenceMonthly:
		// Month-length overflow follows time.AddDate normalization.
		return stepDates(start, until, func(t time.Time) time.Time {
			return t.AddDate(0, 1, 0)
		}), nil
	case RecurrenceWeeklyByDay:
		return expandWeekByDay(start, until, r.WeekDays), nil
	default:
		return nil, errors.New("unsupported recurrence mode")
	}
}

func stepDates(start, until time.Time, next func(time.Time) time.Time) []string {
	out := make([]string, 0, 8)
	for cur := start; !cur.After(until) && len(out) < MaxOccurrences; cur = next(cur) {
		out = append(out, cur.Format(DateLayout))
	}
	return out
}

func expandWeekByDay(start, until time.Time, weekDays []int) []string {
	selected := [7]bool{}
	any := false
	for _, d := range weekDays {
		if d >= 0 && d <= 6 {
			selected[d] = true
			any = true
		}
	}
	if !any {
		return []string{start.Format(DateLayout)}
	}

	out := make([]string, 0, 8)
	for cur := start; !cur.After(until) && len(out) < MaxOccurrences; cur = cur.AddDate(0, 0, 1) {
		if selected[int(cur.Weekday())] {
			out = append(out, cur.Format(DateLayout))
		}
	}
	return out
}

// IsWeekend reports whether an ISO date falls on Saturday or Sunday.
// Malformed dates are not weekends.
func IsWeekend(date string) bool {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return false
	}
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
