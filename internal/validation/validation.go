package validation

import (
	"fmt"
	"strconv"
	"strings"

	"wp-tg-publisher/internal/constants"
)

// NormalizePasscode uppercases and validates a user-entered invite code
func NormalizePasscode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != constants.PasscodeLength {
		return "", fmt.Errorf("passcode must be %d characters", constants.PasscodeLength)
	}

	for _, r := range code {
		if !strings.ContainsRune(constants.PasscodeAlphabet, r) {
			return "", fmt.Errorf("passcode contains invalid characters")
		}
	}

	return code, nil
}

// ParsePostLimit parses the optional /viewposts count argument,
// clamping it to the allowed maximum
func ParsePostLimit(arg string) int {
	limit := constants.DefaultPostsLimit

	arg = strings.TrimSpace(arg)
	if arg == "" {
		return limit
	}

	if parsed, err := strconv.Atoi(arg); err == nil && parsed > 0 {
		limit = parsed
	}
	if limit > constants.MaxPostsLimit {
		limit = constants.MaxPostsLimit
	}

	return limit
}
