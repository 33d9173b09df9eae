package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

func TestIngestCmd(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand("", "ingest", "a.txt", "b.md")

	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.md"}, ts.ingest.ingested)
	assert.Contains(t, out, "Ingested a.txt: 3 chunks (index holds 3)")
	assert.Contains(t, out, "Ingested b.md: 3 chunks (index holds 6)")
}

func TestIngestCmd_RequiresFile(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand("", "ingest")

	assert.Error(t, err)
}

func TestIngestCmd_Unsupported(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.ingest.err = domain.ErrUnsupportedFileType

	_, err := executeCommand("", "ingest", "image.png")

	require.ErrorIs(t, err, domain.ErrUnsupportedFileType)
	assert.Contains(t, err.Error(), "ingest image.png")
}

func TestRebuildCmd(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.ingest.rebuild = &driving.RebuildResult{Files: 4, Chunks: 27, Skipped: []string{"broken.pdf"}}

	out, err := executeCommand("", "rebuild")

	require.NoError(t, err)
	assert.Contains(t, out, "Rebuilt index from 4 files: 27 chunks")
	assert.Contains(t, out, "Skipped 1 files:")
	assert.Contains(t, out, "- broken.pdf")
}

func TestStatusCmd(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.ingest.status = domain.IndexStatus{
		Ready:          true,
		Chunks:         12,
		Dimensions:     384,
		Path:           "/home/u/.docchat/index.db",
		DocumentsDir:   "/home/u/.docchat/documents",
		EmbeddingModel: "hashing-v1",
	}

	out, err := executeCommand("", "status")

	require.NoError(t, err)
	assert.Contains(t, out, "Index: ready (/home/u/.docchat/index.db)")
	assert.Contains(t, out, "Chunks: 12")
	assert.Contains(t, out, "Dimensions: 384")
	assert.Contains(t, out, "LLM model: (not configured)")
}

func TestStatusCmd_JSON(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.ingest.status = domain.IndexStatus{Chunks: 0, Path: "/tmp/index.db"}

	out, err := executeCommand("", "status", "--json")
	require.NoError(t, err)

	var status domain.IndexStatus
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.False(t, status.Ready)
	assert.Equal(t, "/tmp/index.db", status.Path)
}
