package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// MaxNameLength mirrors the HAL limit on pin and signal names.
const MaxNameLength = 47

// ValidateName validates a HAL pin or signal name.
//
// The rules follow what HAL itself accepts:
//   - No empty names
//   - At most MaxNameLength bytes
//   - No whitespace or control characters
//   - No leading, trailing or doubled dots
func ValidateName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "name cannot be empty")
	}

	if len(name) > MaxNameLength {
		return New(ErrCodeInvalidName, "name too long (max %d characters): %q", MaxNameLength, name)
	}

	for _, r := range name {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "name contains whitespace or control characters: %q", name)
		}
	}

	if strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".") || strings.Contains(name, "..") {
		return New(ErrCodeInvalidName, "name has an empty dotted segment: %q", name)
	}

	return nil
}

// ValidateOutputPath validates a path an image will be written to.
//
// Validation rules:
//   - Path cannot be empty
//   - No null bytes or control characters
//   - Must name a file, not end in a path separator
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output path contains invalid characters")
		}
	}

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator)) {
		return New(ErrCodeInvalidPath, "output path must name a file: %s", path)
	}

	return nil
}
