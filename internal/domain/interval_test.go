package domain

import "testing"

func TestParseClock(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"00:00", 0, true},
		{"06:00", 360, true},
		{"17:30", 1050, true},
		{"23:59", 1439, true},
		{"24:00", 0, false},
		{"12:60", 0, false},
		{"9:00", 0, false},
		{"09-00", 0, false},
		{"ab:cd", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseClock(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("ParseClock(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Fatalf("ParseClock(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsStep30(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"06:00", true},
		{"06:30", true},
		{"06:15", false},
		{"06:45", false},
		{"bogus", false},
	}

	for _, tt := range tests {
		if got := IsStep30(tt.in); got != tt.want {
			t.Fatalf("IsStep30(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestWithinWorkingHours(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		want       bool
	}{
		{"full working day", "06:00", "17:30", true},
		{"inside", "09:00", "10:00", true},
		{"before opening", "05:30", "07:00", false},
		{"past closing", "17:00", "18:00", false},
		{"start equals end", "09:00", "09:00", false},
		{"reversed", "10:00", "09:00", false},
		{"malformed start", "9:00", "10:00", false},
		{"malformed end", "09:00", "x", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WithinWorkingHours(tt.start, tt.end); got != tt.want {
				t.Fatalf("WithinWorkingHours(%q, %q) = %v, want %v", tt.start, tt.end, got, tt.want)
			}
		})
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name           string
		s1, e1, s2, e2 string
		want           bool
	}{
		{"disjoint", "09:00", "10:00", "11:00", "12:00", false},
		{"touching boundary", "09:00", "10:00", "10:00", "11:00", false},
		{"partial overlap", "09:00", "10:00", "09:30", "10:30", true},
		{"contained", "09:00", "12:00", "10:00", "11:00", true},
		{"identical", "09:00", "10:00", "09:00", "10:00", true},
		{"malformed fails closed", "09:00", "10:00", "junk", "10:30", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.s1, tt.e1, tt.s2, tt.e2); got != tt.want {
				t.Fatalf("Overlaps = %v, want %v", got, tt.want)
			}
			// Overlap is symmetric in its interval arguments.
			if got := Overlaps(tt.s2, tt.e2, tt.s1, tt.e1); got != tt.want {
				t.Fatalf("Overlaps (swapped) = %v, want %v", got, tt.want)
			}
		})
	}
}
