package normalisers

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

func TestDefaultRegistry_Supports(t *testing.T) {
	r := NewDefaultRegistry()

	for _, path := range []string{"a.txt", "b.MD", "c.pdf", "d.docx", "e.html"} {
		assert.True(t, r.Supports(path), path)
	}
	assert.False(t, r.Supports("image.png"))
	assert.False(t, r.Supports("noext"))
	assert.Contains(t, r.Extensions(), ".pdf")
}

func TestRegistry_ExtractStrict(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "note.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0600))
	r := NewDefaultRegistry()

	doc, err := r.ExtractStrict(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "hello", doc.Content)

	_, err = r.ExtractStrict(context.Background(), filepath.Join(dir, "x.png"))
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)

	_, err = r.ExtractStrict(context.Background(), filepath.Join(dir, "missing.txt"))
	assert.ErrorIs(t, err, domain.ErrExtractionFailure)
}

func TestRegistry_ExtractIsLenient(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "broken.pdf")
	require.NoError(t, os.WriteFile(bad, []byte("garbage"), 0600))

	doc := NewDefaultRegistry().Extract(context.Background(), bad)

	require.NotNil(t, doc)
	assert.Empty(t, doc.Content)
	assert.Equal(t, "broken.pdf", doc.Filename)
}
