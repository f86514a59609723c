package errors

import (
	"math"
	"strings"
	"unicode"
)

// maxCanvasSide bounds canvas dimensions. Anything larger is almost
// certainly a unit mix-up and would make the ideal edge length meaningless.
const maxCanvasSide = 1e6

// ValidateBounds checks a canvas size for layout.
//
// Width and height must be finite, positive and no larger than 1e6 units.
func ValidateBounds(width, height float64) error {
	for _, side := range []struct {
		name string
		v    float64
	}{{"width", width}, {"height", height}} {
		if math.IsNaN(side.v) || math.IsInf(side.v, 0) {
			return New(ErrCodeInvalidBounds, "%s must be a finite number", side.name)
		}
		if side.v <= 0 {
			return New(ErrCodeInvalidBounds, "%s must be positive, got %v", side.name, side.v)
		}
		if side.v > maxCanvasSide {
			return New(ErrCodeInvalidBounds, "%s too large (max %v)", side.name, maxCanvasSide)
		}
	}
	return nil
}

// ValidateNodeID validates a node identifier passed on the command line.
// It rejects empty IDs, control characters and IDs over 256 bytes.
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "node ID cannot be empty")
	}
	if len(id) > 256 {
		return New(ErrCodeInvalidInput, "node ID too long (max 256 characters)")
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "node ID contains invalid control characters")
		}
	}
	return nil
}

// ValidatePath validates an input or output file path.
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

	if strings.ContainsRune(path, '\x00') {
		return New(ErrCodeInvalidPath, "path contains a null byte")
	}
	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}
