package errors

import (
	"strings"
	"unicode"
)

// MaxImageSide is the largest accepted image width or height in pixels.
const MaxImageSide = 16384

// ValidateImageSize checks that an output image has a usable, bounded size.
func ValidateImageSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return New(ErrCodeInvalidSize, "image size must be positive, got %dx%d", width, height)
	}
	if width > MaxImageSide || height > MaxImageSide {
		return New(ErrCodeInvalidSize, "image size %dx%d exceeds maximum side of %d", width, height, MaxImageSide)
	}
	return nil
}

// ValidateFontRange checks a minimum/maximum font size pair.
func ValidateFontRange(min, max float64) error {
	if min <= 0 || max <= 0 {
		return New(ErrCodeInvalidFont, "font sizes must be positive, got %g..%g", min, max)
	}
	if min > max {
		return New(ErrCodeInvalidFont, "minimum font size %g is larger than maximum %g", min, max)
	}
	return nil
}

// ValidatePath validates a user-provided file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}

// ValidateColor checks a "#rgb" or "#rrggbb" hex colour.
func ValidateColor(s string) error {
	if !strings.HasPrefix(s, "#") {
		return New(ErrCodeInvalidColor, "colour %q must start with #", s)
	}
	hex := s[1:]
	if len(hex) != 3 && len(hex) != 6 {
		return New(ErrCodeInvalidColor, "colour %q must have 3 or 6 hex digits", s)
	}
	for _, r := range hex {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return New(ErrCodeInvalidColor, "colour %q contains non-hex digit %q", s, r)
		}
	}
	return nil
}
