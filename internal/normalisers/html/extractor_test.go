package html

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"paragraphs", "<p>One</p><p>Two</p>", "One\nTwo"},
		{"script removed", "<p>Text</p><script>alert(1)</script>", "Text"},
		{"style removed", "<style>p{}</style><div>Body</div>", "Body"},
		{"entities decoded", "<p>Fish &amp; Chips</p>", "Fish & Chips"},
		{"br to newline", "a<br>b<br/>c", "a\nb\nc"},
		{"comments removed", "<!-- hidden -->shown", "shown"},
		{"spaces collapsed", "<span>a    b</span>", "a b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, stripHTML(tt.input))
		})
	}
}

func TestExtractHTMLTitle(t *testing.T) {
	assert.Equal(t, "Q&A", extractHTMLTitle("<title>Q&amp;A</title>", "x.html"))
	assert.Equal(t, "annual report", extractHTMLTitle("<p>none</p>", "/d/annual-report.html"))
}

func TestExtractor_Extract(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	content := "<html><head><title>Benefits</title></head><body><h1>Benefits</h1><p>Dental is covered.</p></body></html>"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	doc, err := New().Extract(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, "Benefits\nDental is covered.", doc.Content)
	assert.Equal(t, "Benefits", doc.Metadata["title"])
}
