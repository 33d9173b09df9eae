package plaintext

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

func TestExtractor_Extract(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.txt")
	require.NoError(t, os.WriteFile(path, []byte("\ufeffLine one\r\nLine two\r\n"), 0600))

	doc, err := New().Extract(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, "Line one\nLine two\n", doc.Content)
	assert.Equal(t, "policy.txt", doc.Filename)
	assert.Equal(t, path, doc.Path)
	assert.Equal(t, "text", doc.Metadata["format"])
}

func TestExtractor_MissingFile(t *testing.T) {
	_, err := New().Extract(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))

	assert.True(t, errors.Is(err, domain.ErrExtractionFailure))
}

func TestNormalise_InvalidUTF8(t *testing.T) {
	out := Normalise([]byte{'a', 0xff, 'b'})

	assert.Equal(t, "a\uFFFDb", out)
}

func TestExtractor_Extensions(t *testing.T) {
	assert.Contains(t, New().Extensions(), ".txt")
}
