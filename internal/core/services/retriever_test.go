package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/adapters/driven/embedding/hashing"
	"github.com/custodia-labs/docchat/internal/adapters/driven/vectorindex"
	"github.com/custodia-labs/docchat/internal/core/domain"
)

// newTestIndex builds an index over chunks with the hashing embedder.
func newTestIndex(t *testing.T, chunks ...domain.Chunk) (*vectorindex.Index, *hashing.EmbeddingService) {
	t.Helper()
	embedder := hashing.NewEmbeddingService(256)
	index := vectorindex.New(embedder)
	if len(chunks) > 0 {
		require.NoError(t, index.Build(context.Background(), chunks))
	}
	return index, embedder
}

func TestRetriever_Retrieve_RanksRelevantChunkFirst(t *testing.T) {
	index, embedder := newTestIndex(t,
		testChunk("1", "leave.txt", "Employees receive twelve days of annual leave."),
		testChunk("2", "expenses.txt", "Submit expense reports within thirty days."),
		testChunk("3", "security.txt", "Badges must be worn inside the office."),
	)
	r := NewRetriever(index, embedder)

	results, err := r.Retrieve(context.Background(), "how many days of annual leave", 2)

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "leave.txt", results[0].Filename)
	assert.GreaterOrEqual(t, results[0].Score, results[1].Score)
}

func TestRetriever_Retrieve_ReturnsAllWhenKExceedsSize(t *testing.T) {
	index, embedder := newTestIndex(t, testChunk("1", "a.txt", "alpha"), testChunk("2", "b.txt", "beta"))

	results, err := NewRetriever(index, embedder).Retrieve(context.Background(), "alpha", 10)

	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestRetriever_Retrieve_InvalidInput(t *testing.T) {
	index, embedder := newTestIndex(t, testChunk("1", "a.txt", "alpha"))
	r := NewRetriever(index, embedder)

	tests := []struct {
		name  string
		query string
		k     int
	}{
		{"blank query", "   ", 4},
		{"zero k", "alpha", 0},
		{"negative k", "alpha", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Retrieve(context.Background(), tt.query, tt.k)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestRetriever_Retrieve_IndexNotReady(t *testing.T) {
	index, embedder := newTestIndex(t)

	_, err := NewRetriever(index, embedder).Retrieve(context.Background(), "anything", 4)

	assert.ErrorIs(t, err, domain.ErrIndexNotReady)
}

func TestRetriever_Retrieve_EmbedderFailure(t *testing.T) {
	index, _ := newTestIndex(t, testChunk("1", "a.txt", "alpha"))

	_, err := NewRetriever(index, failingEmbedder{}).Retrieve(context.Background(), "alpha", 4)

	assert.ErrorIs(t, err, domain.ErrBackendUnavailable)
	assert.ErrorIs(t, err, errBackendDown)
}

func TestSearchService_Search(t *testing.T) {
	index, embedder := newTestIndex(t,
		testChunk("1", "a.txt", "the quarterly budget review"),
		testChunk("2", "b.txt", "holiday rota for december"),
	)
	svc := NewSearchService(NewRetriever(index, embedder))

	results, err := svc.Search(context.Background(), "budget review", 1)

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "1", results[0].ChunkID)
	assert.Equal(t, "the quarterly budget review", results[0].Text)
}
