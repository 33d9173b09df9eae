package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_AreDistinct(t *testing.T) {
	errs := []error{
		ErrMissingChatService,
		ErrMissingSearchService,
		ErrInvalidPorts,
	}

	seen := make(map[string]bool)
	for _, err := range errs {
		msg := err.Error()
		assert.False(t, seen[msg], "duplicate error message: %s", msg)
		seen[msg] = true
	}
}

func TestErrors_Messages(t *testing.T) {
	assert.Contains(t, ErrMissingChatService.Error(), "chat service")
	assert.Contains(t, ErrMissingSearchService.Error(), "search service")
	assert.Contains(t, ErrInvalidPorts.Error(), "invalid ports")
}
