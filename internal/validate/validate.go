package validate

import (
	"regexp"
	"strings"
)

var (
	reID       = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	reDecision = regexp.MustCompile(`^(Approved|Rejected)$`)
)

// ID validates a simple resource identifier (product/category/request ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Name validates a displayable name with a reasonable max length.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 100 {
		return "", false
	}
	return s, true
}

// Decision validates an admin review decision.
func Decision(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reDecision.MatchString(s)
}

// Comment trims and bounds free-form feedback text.
func Comment(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 2000 {
		return "", false
	}
	return s, true
}

func Rating(n int) bool { return n >= 1 && n <= 5 }
