package domain

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Query-language fragments that should never appear in a free-text vehicle
// description.
var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(DROP|DELETE|INSERT|UPDATE|ALTER|EXEC|UNION)\b.*\b(TABLE|FROM|INTO|SELECT|SET)\b`),
	regexp.MustCompile(`(?i)(--|;)\s*(DROP|DELETE|SELECT|MATCH|MERGE)`),
	regexp.MustCompile(`(?i)\$\{.*\}`),
}

// Single-word descriptions like "Toyota" or "Automatic" are legitimate queries.
const minDescriptionLength = 2

// ValidateDescription validates a free-text vehicle description before matching.
func ValidateDescription(text string) error {
	trimmed := strings.TrimSpace(text)

	if utf8.RuneCountInString(trimmed) < minDescriptionLength {
		return NewValidationError("description", trimmed, ErrDescriptionTooShort)
	}

	for _, pat := range injectionPatterns {
		if pat.MatchString(trimmed) {
			return NewValidationError("description", trimmed, ErrDescriptionInjection)
		}
	}

	return nil
}
