package helpers

import (
	"strings"
)

var statusTokens = map[string]string{
	"1": "publish", "publish": "publish",
	"2": "draft", "draft": "draft",
	"3": "pending", "pending": "pending",
	"4": "private", "private": "private",
	"5": "trash", "trash": "trash",
}

// ParsePostStatus maps a user-entered status token (number or word) to a
// WordPress post status. Unrecognized tokens silently retain fallback.
func ParsePostStatus(text, fallback string) string {
	token := strings.ToLower(strings.TrimSpace(text))
	if status, ok := statusTokens[token]; ok {
		return status
	}
	return fallback
}
