package domain

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]{2,}$`)

func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// NormalizeEmail trims and lowercases an address. Normalized email is the
// authorization key for bookings.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SplitEmails breaks a raw participant list on commas, semicolons and
// newlines, normalizing each entry and dropping empties.
func SplitEmails(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n' || r == '\r'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if e := NormalizeEmail(f); e != "" {
			out = append(out, e)
		}
	}
	return out
}

// JoinParticipants dedups the list, removes the owner, and returns the
// comma-delimited storage form. Empty when nothing remains.
func JoinParticipants(emails []string, ownerEmail string) string {
	seen := make(map[string]struct{}, len(emails))
	kept := make([]string, 0, len(emails))
	for _, e := range emails {
		if e == ownerEmail {
			continue
		}
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		kept = append(kept, e)
	}
	return strings.Join(kept, ",")
}
