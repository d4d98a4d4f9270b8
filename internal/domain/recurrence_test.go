package domain

import (
	"reflect"
	"testing"
)

func TestExpandDates_NoRecurrence(t *testing.T) {
	for _, r := range []*Recurrence{nil, {Mode: RecurrenceNone}, {}} {
		got, err := ExpandDates("2025-03-10", r)
		if err != nil {
			t.Fatalf("ExpandDates error: %v", err)
		}
		if !reflect.DeepEqual(got, []string{"2025-03-10"}) {
			t.Fatalf("dates = %v, want single start date", got)
		}
	}
}

func TestExpandDates_InvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		start string
		r     *Recurrence
	}{
		{"bad start date", "2025-13-40", nil},
		{"bad until date", "2025-03-10", &Recurrence{Mode: RecurrenceDaily, Until: "soon"}},
		{"unknown mode", "2025-03-10", &Recurrence{Mode: "yearly"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ExpandDates(tt.start, tt.r); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestExpandDates_Daily(t *testing.T) {
	got, err := ExpandDates("2025-03-10", &Recurrence{Mode: RecurrenceDaily, Until: "2025-03-13"})
	if err != nil {
		t.Fatalf("ExpandDates error: %v", err)
	}
	want := []string{"2025-03-10", "2025-03-11", "2025-03-12", "2025-03-13"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("dates = %v, want %v", got, want)
	}
}

func TestExpandDates_WeeklyStepsSevenDays(t *testing.T) {
	got, err := ExpandDates("2025-03-10", &Recurrence{Mode: RecurrenceWeekly, Until: "2025-03-31"})
	if err != nil {
		t.Fatalf("ExpandDates error: %v", err)
	}
	want := []string{"2025-03-10", "2025-03-17", "2025-03-24", "2025-03-31"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("dates = %v, want %v", got, want)
	}
}

func TestExpandDates_MonthlyRollsOverShortMonths(t *testing.T) {
	got, err := ExpandDates("2025-01-31", &Recurrence{Mode: RecurrenceMonthly, Until: "2025-04-30"})
	if err != nil {
		t.Fatalf("ExpandDates error: %v", err)
	}
	// time.AddDate normalizes Jan 31 + 1 month into March.
	want := []string{"2025-01-31", "2025-03-03", "2025-04-03"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("dates = %v, want %v", got, want)
	}
}

func TestExpandDates_DefaultUntilIsThreeMonths(t *testing.T) {
	got, err := ExpandDates("2025-03-10", &Recurrence{Mode: RecurrenceWeekly})
	if err != nil {
		t.Fatalf("ExpandDates error: %v", err)
	}
	if len(got) == 0 {
		t.Fatalf("expected occurrences")
	}
	if last := got[len(got)-1]; last > "2025-06-10" {
		t.Fatalf("last occurrence %s past default horizon", last)
	}
	if len(got) != 14 {
		t.Fatalf("len = %d, want 14 weekly occurrences in three months", len(got))
	}
}

func TestExpandDates_CapsAtMaxOccurrences(t *testing.T) {
	got, err := ExpandDates("2025-01-01", &Recurrence{Mode: RecurrenceDaily, Until: "2030-01-01"})
	if err != nil {
		t.Fatalf("ExpandDates error: %v", err)
	}
	if len(got) != MaxOccurrences {
		t.Fatalf("len = %d, want cap %d", len(got), MaxOccurrences)
	}
}

func TestExpandDates_WeeklyByDay(t *testing.T) {
	t.Run("selects matching weekdays", func(t *testing.T) {
		// 2025-03-10 is a Monday.
		got, err := ExpandDates("2025-03-10", &Recurrence{
			Mode:     RecurrenceWeeklyByDay,
			Until:    "2025-03-16",
			WeekDays: []int{1, 3}, // Monday, Wednesday
		})
		if err != nil {
			t.Fatalf("ExpandDates error: %v", err)
		}
		want := []string{"2025-03-10", "2025-03-12"}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("dates = %v, want %v", got, want)
		}
	})

	t.Run("empty weekday set degrades to start date", func(t *testing.T) {
		got, err := ExpandDates("2025-03-10", &Recurrence{Mode: RecurrenceWeeklyByDay, Until: "2025-06-01"})
		if err != nil {
			t.Fatalf("ExpandDates error: %v", err)
		}
		if !reflect.DeepEqual(got, []string{"2025-03-10"}) {
			t.Fatalf("dates = %v, want single start date", got)
		}
	})

	t.Run("out of range weekdays ignored", func(t *testing.T) {
		got, err := ExpandDates("2025-03-10", &Recurrence{
			Mode:     RecurrenceWeeklyByDay,
			Until:    "2025-03-16",
			WeekDays: []int{-1, 7, 2},
		})
		if err != nil {
			t.Fatalf("ExpandDates error: %v", err)
		}
		want := []string{"2025-03-11"}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("dates = %v, want %v", got, want)
		}
	})
}

func TestExpandDates_Deterministic(t *testing.T) {
	r := &Recurrence{Mode: RecurrenceWeeklyByDay, Until: "2025-05-01", WeekDays: []int{1, 2, 5}}
	first, err := ExpandDates("2025-03-10", r)
	if err != nil {
		t.Fatalf("ExpandDates error: %v", err)
	}
	second, err := ExpandDates("2025-03-10", r)
	if err != nil {
		t.Fatalf("ExpandDates error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expansion not deterministic: %v vs %v", first, second)
	}
}

func TestIsWeekend(t *testing.T) {
	tests := []struct {
		date string
		want bool
	}{
		{"2025-03-08", true},  // Saturday
		{"2025-03-09", true},  // Sunday
		{"2025-03-10", false}, // Monday
		{"not-a-date", false},
	}

	for _, tt := range tests {
		if got := IsWeekend(tt.date); got != tt.want {
			t.Fatalf("IsWeekend(%q) = %v, want %v", tt.date, got, tt.want)
		}
	}
}
