package util

import (
	"strings"
	"time"
)

// MaskSecret obscures a credential for logging purposes, showing only the first
// and last few characters.
func MaskSecret(secret string) string {
	if len(secret) > 8 {
		return secret[:4] + "..." + secret[len(secret)-4:]
	} else if len(secret) > 4 {
		return secret[:2] + "..." + secret[len(secret)-2:]
	} else if len(secret) > 2 {
		return secret[:1] + "..." + secret[len(secret)-1:]
	}
	return secret
}

// MaskEmail hides the local part of an email address for logging.
func MaskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return MaskSecret(email)
	}
	return MaskSecret(email[:at]) + email[at:]
}

// FormatDateBR renders a timestamp in the panel's DD/MM/YYYY display convention.
// Storage stays in UTC; this is strictly a presentation-boundary helper.
func FormatDateBR(t time.Time) string {
	return t.UTC().Format("02/01/2006")
}

// FormatDateBRPtr renders an optional timestamp, returning "" when absent.
func FormatDateBRPtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return FormatDateBR(*t)
}
