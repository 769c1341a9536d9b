package errors

import (
	"regexp"
)

// MaxGridSide bounds the rows and columns accepted from description
// documents and API requests.
const MaxGridSide = 1024

// linkIDRegex matches IDs usable in documents, DOT output and cache keys.
var linkIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._:-]*$`)

// ValidateLinkID validates a wire or device ID taken from user input.
//
// The validation rules are intentionally conservative:
//   - No empty IDs
//   - Maximum length of 128 characters
//   - Letters, digits and . _ : - only, starting with a letter or digit
func ValidateLinkID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "link ID cannot be empty")
	}
	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "link ID too long (max 128 characters)")
	}
	if !linkIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid link ID: %q", id)
	}
	return nil
}

// ValidateGridSize validates board dimensions.
func ValidateGridSize(rows, cols int) error {
	if rows <= 0 || cols <= 0 {
		return New(ErrCodeInvalidInput, "grid must have at least one row and column (got %dx%d)", rows, cols)
	}
	if rows > MaxGridSide || cols > MaxGridSide {
		return New(ErrCodeInvalidInput, "grid too large: %dx%d (max %d per side)", rows, cols, MaxGridSide)
	}
	return nil
}
