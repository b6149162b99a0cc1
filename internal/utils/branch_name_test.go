package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeBranchName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain name passes through", "feature-branch", "feature-branch"},
		{"spaces become hyphens", "fix the parser", "fix-the-parser"},
		{"runs of invalid chars collapse", "a  &&  b", "a-b"},
		{"slashes are preserved", "proj-123/fix-bug", "proj-123/fix-bug"},
		{"trailing dots and slashes drop", "branch...", "branch"},
		{"leading and trailing hyphens drop", "--branch--", "branch"},
		{"unicode is replaced", "café", "caf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeBranchName(tt.input))
		})
	}
}

func TestSanitizeBranchNameTruncatesLongNames(t *testing.T) {
	long := strings.Repeat("a", 300)
	out := SanitizeBranchName(long)
	assert.LessOrEqual(t, len(out), MaxBranchNameByteLength)
	assert.NotEmpty(t, out)
}

func TestSlugFromSummary(t *testing.T) {
	assert.Equal(t, "proj-123/fix-the-login-bug",
		SlugFromSummary("PROJ-123", "Fix the login bug"))
	assert.Equal(t, "ab-1/tidy-up",
		SlugFromSummary("AB-1", "  Tidy up!  "))
}
