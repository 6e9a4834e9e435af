package domain

import "strings"

// NormalizeQuestion trims and lower-cases a question for cache key derivation.
func NormalizeQuestion(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}
