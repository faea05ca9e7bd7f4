package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateItemName(t *testing.T) {
	valid := []string{"report.pdf", "My Drive stuff", "über-doc", "a"}
	for _, name := range valid {
		assert.NoError(t, ValidateItemName(name), "name %q", name)
	}

	invalid := []string{
		"",
		"   ",
		strings.Repeat("x", 256),
		"a/b",
		"a\\b",
		"a:b",
		"what?",
		"star*",
		string([]byte{0xff, 0xfe}),
	}
	for _, name := range invalid {
		assert.Error(t, ValidateItemName(name), "name %q", name)
	}
}

func TestValidateFileSize(t *testing.T) {
	assert.NoError(t, ValidateFileSize(1, 100))
	assert.NoError(t, ValidateFileSize(100, 100))
	assert.Error(t, ValidateFileSize(0, 100))
	assert.Error(t, ValidateFileSize(-5, 100))
	assert.Error(t, ValidateFileSize(101, 100))

	// Zero ceiling means unlimited.
	assert.NoError(t, ValidateFileSize(1<<40, 0))
}
