package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestClassifyDiff tests verdict thresholds
func TestClassifyDiff(t *testing.T) {
	tests := []struct {
		name     string
		added    int
		removed  int
		ratio    float64
		expected DiffVerdict
	}{
		{"no changes is identical", 0, 0, 1.0, DiffIdentical},
		{"no changes wins over low ratio", 0, 0, 0.2, DiffIdentical},
		{"above 0.9 is minor", 1, 0, 0.95, DiffMinor},
		{"exactly 0.9 is significant", 1, 1, 0.9, DiffSignificant},
		{"above 0.7 is significant", 2, 1, 0.75, DiffSignificant},
		{"exactly 0.7 is major", 2, 2, 0.7, DiffMajor},
		{"low ratio is major", 5, 5, 0.1, DiffMajor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyDiff(tt.added, tt.removed, tt.ratio))
		})
	}
}

// TestDiffVerdict_Description tests verdict descriptions
func TestDiffVerdict_Description(t *testing.T) {
	assert.Equal(t, "The documents are identical", DiffIdentical.Description())
	assert.Equal(t, "Unknown", DiffVerdict("x").Description())
}
