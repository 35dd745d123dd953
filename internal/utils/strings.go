package utils

import (
	"strings"
)

// NormalizeString trims whitespace and normalizes string input
func NormalizeString(s string) string {
	return strings.TrimSpace(s)
}

// NormalizeEmail normalizes email addresses (lowercase and trim)
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsValidEmail performs basic email validation
func IsValidEmail(email string) bool {
	normalized := NormalizeEmail(email)
	if normalized == "" {
		return false
	}

	parts := strings.Split(normalized, "@")
	if len(parts) != 2 {
		return false
	}

	local, domain := parts[0], parts[1]
	return len(local) > 0 && len(domain) > 2 && strings.Contains(domain, ".")
}

// DisplayName picks the name shown for a user: the given full name, else the
// local part of the e-mail, else "User".
func DisplayName(fullName, email string) string {
	if name := NormalizeString(fullName); name != "" {
		return name
	}
	if local, _, ok := strings.Cut(NormalizeString(email), "@"); ok && local != "" {
		return local
	}
	return "User"
}

// FirstName returns the first word of a display name, used in greetings.
func FirstName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "there"
	}
	return fields[0]
}
