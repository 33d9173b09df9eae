package cached

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingEmbedder records how many texts reach it.
type countingEmbedder struct {
	calls  int
	texts  int
	err    error
	closed bool
}

func (c *countingEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	c.calls++
	c.texts++
	return []float32{float32(len(text))}, c.err
}

func (c *countingEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	c.calls++
	c.texts += len(texts)
	if c.err != nil {
		return nil, c.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = []float32{float32(len(t))}
	}
	return out, nil
}

func (c *countingEmbedder) Dimensions() int              { return 1 }
func (c *countingEmbedder) ModelName() string            { return "counting" }
func (c *countingEmbedder) Ping(_ context.Context) error { return nil }

func (c *countingEmbedder) Close() error {
	c.closed = true
	return nil
}

func TestNew_InvalidSize(t *testing.T) {
	_, err := New(&countingEmbedder{}, 0)
	assert.Error(t, err)
}

func TestEmbeddingService_EmbedBatch_CachesDocuments(t *testing.T) {
	inner := &countingEmbedder{}
	s, err := New(inner, 10)
	require.NoError(t, err)
	ctx := context.Background()

	first, err := s.EmbedBatch(ctx, []string{"a", "bb"})
	require.NoError(t, err)
	second, err := s.EmbedBatch(ctx, []string{"bb", "ccc", "a"})
	require.NoError(t, err)

	assert.Equal(t, [][]float32{{1}, {2}}, first)
	assert.Equal(t, [][]float32{{2}, {3}, {1}}, second)
	assert.Equal(t, 3, inner.texts, "only the miss should reach the embedder")
	assert.Equal(t, 3, s.Len())
}

func TestEmbeddingService_EmbedBatch_AllCached(t *testing.T) {
	inner := &countingEmbedder{}
	s, _ := New(inner, 10)
	ctx := context.Background()

	_, _ = s.EmbedBatch(ctx, []string{"a"})
	_, err := s.EmbedBatch(ctx, []string{"a"})

	require.NoError(t, err)
	assert.Equal(t, 1, inner.calls)
}

func TestEmbeddingService_Embed_NotCached(t *testing.T) {
	inner := &countingEmbedder{}
	s, _ := New(inner, 10)
	ctx := context.Background()

	_, _ = s.Embed(ctx, "query")
	_, _ = s.Embed(ctx, "query")

	assert.Equal(t, 2, inner.calls)
	assert.Equal(t, 0, s.Len())
}

func TestEmbeddingService_EmbedBatch_Error(t *testing.T) {
	inner := &countingEmbedder{err: errors.New("down")}
	s, _ := New(inner, 10)

	_, err := s.EmbedBatch(context.Background(), []string{"a"})

	assert.Error(t, err)
	assert.Equal(t, 0, s.Len())
}

func TestEmbeddingService_ReturnsCopies(t *testing.T) {
	s, _ := New(&countingEmbedder{}, 10)
	ctx := context.Background()

	first, _ := s.EmbedBatch(ctx, []string{"abc"})
	first[0][0] = 99
	second, _ := s.EmbedBatch(ctx, []string{"abc"})

	assert.Equal(t, float32(3), second[0][0])
}

func TestEmbeddingService_Delegates(t *testing.T) {
	inner := &countingEmbedder{}
	s, _ := New(inner, 1)

	assert.Equal(t, 1, s.Dimensions())
	assert.Equal(t, "counting", s.ModelName())
	assert.NoError(t, s.Ping(context.Background()))
	assert.NoError(t, s.Close())
	assert.True(t, inner.closed)
}
