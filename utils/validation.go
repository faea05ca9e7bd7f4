package utils

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ValidateItemName checks a file or folder display name.
func ValidateItemName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name cannot be empty")
	}

	if len(name) > 255 {
		return fmt.Errorf("name too long (max 255 characters)")
	}

	if !utf8.ValidString(name) {
		return fmt.Errorf("name contains invalid UTF-8 characters")
	}

	invalidChars := []string{"<", ">", ":", "\"", "|", "?", "*", "\x00", "/", "\\"}
	for _, char := range invalidChars {
		if strings.Contains(name, char) {
			return fmt.Errorf("name contains invalid character: %s", char)
		}
	}

	return nil
}

// ValidateFileSize rejects uploads above the configured ceiling.
func ValidateFileSize(size, maxSize int64) error {
	if size <= 0 {
		return fmt.Errorf("file size must be positive")
	}
	if maxSize > 0 && size > maxSize {
		return fmt.Errorf("file size %d bytes exceeds maximum allowed size of %d bytes", size, maxSize)
	}
	return nil
}
