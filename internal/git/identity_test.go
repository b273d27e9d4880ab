package git

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeIdentity(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple name", "Jane Doe", "jane.doe"},
		{"already lower case", "jane doe", "jane.doe"},
		{"single word", "Jane", "jane"},
		{"extra whitespace", "  Jane   Doe  ", "jane.doe"},
		{"tabs and newlines", "Jane\tvan\nDoe", "jane.van.doe"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"mixed case", "JANE DOE", "jane.doe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeIdentity(tt.input))
		})
	}
}

func TestRemoteBranchPath(t *testing.T) {
	assert.Equal(t, "jane.doe/backup/main", RemoteBranchPath("jane.doe", "backup/main"))
	assert.Equal(t, "backup/main", RemoteBranchPath("", "backup/main"))
}
