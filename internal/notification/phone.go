package notification

import (
	"errors"
	"strings"
)

var ErrInvalidPhone = errors.New("invalid phone number")

// NormalizePhone reduces raw to the digits-only international form the
// messaging providers expect. Numbers written with a leading + already carry
// their country code; 10-digit local numbers, and 11-digit numbers with a
// trunk 0, get countryCode prepended.
func NormalizePhone(raw, countryCode string) (string, error) {
	trimmed := strings.TrimSpace(raw)

	var b strings.Builder
	for _, r := range trimmed {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	switch {
	case strings.HasPrefix(trimmed, "+"):
	case len(digits) == 10:
		digits = countryCode + digits
	case len(digits) == 11 && digits[0] == '0':
		digits = countryCode + digits[1:]
	}

	if len(digits) < 10 || len(digits) > 15 {
		return "", ErrInvalidPhone
	}
	return digits, nil
}
