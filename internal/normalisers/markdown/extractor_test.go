package markdown

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"heading", "# Leave Policy", "Leave Policy"},
		{"bold and italic", "This is **important** and *urgent*", "This is important and urgent"},
		{"snake case survives", "set max_turns to 10", "set max_turns to 10"},
		{"link", "See [the handbook](https://example.com/h)", "See the handbook"},
		{"image removed", "Logo ![logo](logo.png) here", "Logo  here"},
		{"inline code kept", "Run `docchat rebuild` now", "Run docchat rebuild now"},
		{"list markers", "- first\n* second\n1. third", "first\nsecond\nthird"},
		{"blockquote", "> quoted text", "quoted text"},
		{"code fence contents kept", "```go\nfmt.Println()\n```", "fmt.Println()"},
		{"horizontal rule", "above\n\n---\n\nbelow", "above\n\nbelow"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, stripMarkdown(tt.input))
		})
	}
}

func TestExtractMarkdownTitle(t *testing.T) {
	assert.Equal(t, "Handbook", extractMarkdownTitle("intro\n# Handbook\n", "x.md"))
	assert.Equal(t, "leave policy", extractMarkdownTitle("no heading", "/docs/leave_policy.md"))
}

func TestExtractor_Extract(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guide.md")
	require.NoError(t, os.WriteFile(path, []byte("# Guide\n\nUse **bold** wisely.\n"), 0600))

	doc, err := New().Extract(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, "Guide\n\nUse bold wisely.", doc.Content)
	assert.Equal(t, "Guide", doc.Metadata["title"])
	assert.Equal(t, "markdown", doc.Metadata["format"])
}
