package helpers

import (
	"strings"
)

// Truncate shortens a string to at most n runes
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// DisplayName builds a user's display name from the profile fields,
// falling back to the username and then to "Unknown"
func DisplayName(firstName, lastName, username string) string {
	name := strings.TrimSpace(strings.Join(nonEmpty(firstName, lastName), " "))
	if name != "" {
		return name
	}
	if username != "" {
		return username
	}
	return "Unknown"
}

func nonEmpty(parts ...string) []string {
	var out []string
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
