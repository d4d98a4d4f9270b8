package domain

// Working hours bound every booking: 06:00 through 17:30.
const (
	WorkStartMinutes = 6 * 60
	WorkEndMinutes   = 17*60 + 30
)

// ParseClock converts an "HH:MM" string into minutes since midnight.
// The second return is false for anything that is not a well-formed
// 24-hour clock value.
func ParseClock(s string) (int, bool) {
	if len(s) != 5 || s[2] != ':' {
		return 0, false
	}
	h, ok := twoDigits(s[0], s[1])
	if !ok || h > 23 {
		return 0, false
	}
	m, ok := twoDigits(s[3], s[4])
	if !ok || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

func twoDigits(a, b byte) (int, bool) {
	if a < '0' || a > '9' || b < '0' || b > '9' {
		return 0, false
	}
	return int(a-'0')*10 + int(b-'0'), true
}

// IsStep30 reports whether s sits on the 30-minute booking grid.
func IsStep30(s string) bool {
	m, ok := ParseClock(s)
	return ok && m%30 == 0
}

// WithinWorkingHours reports whether [start, end) is a valid window inside
// working hours. Malformed input fails closed.
func WithinWorkingHours(start, end string) bool {
	s, ok := ParseClock(start)
	if !ok {
		return false
	}
	e, ok := ParseClock(end)
	if !ok {
		return false
	}
	return s < e && s >= WorkStartMinutes && e <= WorkEndMinutes
}

// Overlaps reports whether the half-open intervals [startA, endA) and
// [startB, endB) intersect. Touching endpoints do not overlap. Malformed
// input fails closed.
func Overlaps(startA, endA, startB, endB string) bool {
	a1, ok := ParseClock(startA)
	if !ok {
		return false
	}
	a2, ok := ParseClock(endA)
	if !ok {
		return false
	}
	b1, ok := ParseClock(startB)
	if !ok {
		return false
	}
	b2, ok := ParseClock(endB)
	if !ok {
		return false
	}
	return a1 < b2 && b1 < a2
}
