package errors

import (
	"strings"
	"unicode"
)

// ValidateDocumentID validates an entity ID before it is used as a storage
// key or filename component. It rejects IDs that could be used for path
// traversal or injection attacks.
//
// The validation rules are intentionally conservative:
//   - No empty IDs
//   - No control characters or null bytes
//   - No path separators or traversal sequences
//   - Maximum length of 256 characters
func ValidateDocumentID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "document ID cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidID, "document ID too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidID, "document ID contains control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\\",   // Backslash (Windows path)
		"\x00", // Null byte
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidID, "document ID contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// SanitizeIDComponent makes an arbitrary string safe for use inside a
// generated identifier. Sanitization never fails: unsafe runes are replaced
// with underscores rather than rejected, and overly long inputs are
// truncated.
//
// Rules:
//   - Letters and digits pass through lowercased
//   - Everything else (spaces, path separators, control characters,
//     punctuation) collapses to a single underscore
//   - Leading/trailing underscores are trimmed
//   - Output is capped at 64 characters
func SanitizeIDComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	lastUnderscore := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
			lastUnderscore = false
		case !lastUnderscore:
			b.WriteByte('_')
			lastUnderscore = true
		}
	}

	out := strings.Trim(b.String(), "_")
	if len(out) > 64 {
		out = strings.Trim(out[:64], "_")
	}
	if out == "" {
		return "unknown"
	}
	return out
}
