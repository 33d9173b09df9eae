package vectorindex

import (
	"context"
	"errors"
	"sync"
)

// stubEmbedder maps text to fixed vectors; unknown text gets the fallback.
type stubEmbedder struct {
	mu       sync.Mutex
	vectors  map[string][]float32
	fallback []float32
	dims     int
	err      error
	calls    int
}

func newStubEmbedder(dims int) *stubEmbedder {
	fallback := make([]float32, dims)
	fallback[0] = 1
	return &stubEmbedder{vectors: map[string][]float32{}, fallback: fallback, dims: dims}
}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	out, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

func (s *stubEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := make([][]float32, len(texts))
	for n, text := range texts {
		if v, ok := s.vectors[text]; ok {
			out[n] = v
		} else {
			out[n] = s.fallback
		}
	}
	return out, nil
}

func (s *stubEmbedder) Dimensions() int {
	return s.dims
}

func (s *stubEmbedder) ModelName() string {
	return "stub"
}

func (s *stubEmbedder) Ping(context.Context) error {
	return nil
}

func (s *stubEmbedder) Close() error {
	return nil
}

var errEmbedFailed = errors.New("embedder down")
