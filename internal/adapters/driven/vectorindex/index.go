// Package vectorindex provides an exact in-memory vector index persisted to SQLite.
//
// Search is brute force over unit-length vectors, so scores are cosine
// similarities. Writers build a new snapshot and swap it in; readers hold
// a snapshot for the duration of a search and never see partial writes.
package vectorindex

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"
	"sync"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// DefaultBatchSize is the number of chunks embedded per EmbedBatch call.
const DefaultBatchSize = 64

// snapshot is an immutable generation of the index.
type snapshot struct {
	chunks  []domain.Chunk
	vectors [][]float32
}

// Index is a flat vector index. Safe for concurrent use.
type Index struct {
	embedder  driven.EmbeddingService
	batchSize int
	limiter   *rate.Limiter

	// writeMu serialises Build, Add, Reset, Save and Load.
	writeMu sync.Mutex

	mu   sync.RWMutex
	snap *snapshot
	dims int
}

// Option configures an Index.
type Option func(*Index)

// WithBatchSize sets the number of chunks per embedding request.
func WithBatchSize(n int) Option {
	return func(i *Index) {
		if n > 0 {
			i.batchSize = n
		}
	}
}

// WithRateLimit throttles embedding requests to perSecond batches.
// Zero or negative disables throttling.
func WithRateLimit(perSecond float64) Option {
	return func(i *Index) {
		if perSecond > 0 {
			i.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// New creates an empty, not yet ready index that embeds with embedder.
func New(embedder driven.EmbeddingService, opts ...Option) *Index {
	idx := &Index{
		embedder:  embedder,
		batchSize: DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// Build replaces the index contents with the given chunks.
func (i *Index) Build(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return domain.ErrEmptyInput
	}

	i.writeMu.Lock()
	defer i.writeMu.Unlock()

	vectors, err := i.embed(ctx, chunks)
	if err != nil {
		return err
	}
	dims := len(vectors[0])
	if err := checkDims(vectors, dims); err != nil {
		return err
	}

	i.swap(&snapshot{chunks: slices.Clone(chunks), vectors: vectors}, dims)
	logger.Debug("vector index built: %d chunks, %d dimensions", len(chunks), dims)
	return nil
}

// Reset replaces the contents with an empty, ready index.
func (i *Index) Reset() {
	i.writeMu.Lock()
	defer i.writeMu.Unlock()

	i.mu.Lock()
	defer i.mu.Unlock()
	i.snap = &snapshot{}
}

// Add embeds and appends chunks. Existing readers keep their snapshot.
func (i *Index) Add(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	i.writeMu.Lock()
	defer i.writeMu.Unlock()

	vectors, err := i.embed(ctx, chunks)
	if err != nil {
		return err
	}

	current, dims := i.current()
	if current == nil || len(current.chunks) == 0 {
		dims = len(vectors[0])
		current = &snapshot{}
	}
	if err := checkDims(vectors, dims); err != nil {
		return err
	}

	// Fresh backing arrays so snapshots held by readers stay untouched.
	next := &snapshot{
		chunks:  slices.Concat(current.chunks, chunks),
		vectors: slices.Concat(current.vectors, vectors),
	}
	i.swap(next, dims)
	logger.Debug("vector index: added %d chunks, size %d", len(chunks), len(next.chunks))
	return nil
}

// Search returns up to k chunks by descending similarity. Ties keep insertion order.
func (i *Index) Search(ctx context.Context, query []float32, k int) ([]domain.ScoredChunk, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: k must be at least 1, got %d", domain.ErrInvalidInput, k)
	}

	snap, dims := i.current()
	if snap == nil {
		return nil, domain.ErrIndexNotReady
	}
	if len(snap.chunks) == 0 {
		return []domain.ScoredChunk{}, nil
	}
	if len(query) != dims {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d",
			domain.ErrDimensionMismatch, len(query), dims)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	q := normalise(query)
	results := make([]domain.ScoredChunk, len(snap.chunks))
	for n, vec := range snap.vectors {
		results[n] = domain.ScoredChunk{Chunk: snap.chunks[n], Score: dot(q, vec)}
	}

	slices.SortStableFunc(results, func(a, b domain.ScoredChunk) int {
		return cmp.Compare(b.Score, a.Score)
	})

	return results[:min(k, len(results))], nil
}

// Ready reports whether an index has been built, reset or loaded.
func (i *Index) Ready() bool {
	snap, _ := i.current()
	return snap != nil
}

// Len returns the number of stored chunks.
func (i *Index) Len() int {
	snap, _ := i.current()
	if snap == nil {
		return 0
	}
	return len(snap.chunks)
}

// Dimensions returns the vector dimension, 0 before the first build.
func (i *Index) Dimensions() int {
	_, dims := i.current()
	return dims
}

func (i *Index) current() (*snapshot, int) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.snap, i.dims
}

func (i *Index) swap(next *snapshot, dims int) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.snap = next
	i.dims = dims
}

// embed computes unit vectors for chunks in batches, honouring the rate limit.
func (i *Index) embed(ctx context.Context, chunks []domain.Chunk) ([][]float32, error) {
	vectors := make([][]float32, 0, len(chunks))

	for start := 0; start < len(chunks); start += i.batchSize {
		end := min(start+i.batchSize, len(chunks))

		if i.limiter != nil {
			if err := i.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		texts := make([]string, end-start)
		for n, c := range chunks[start:end] {
			texts[n] = c.Text
		}

		batch, err := i.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("%w: embedding chunks %d-%d: %w",
				domain.ErrBackendUnavailable, start, end-1, err)
		}
		if len(batch) != len(texts) {
			return nil, fmt.Errorf("%w: embedder returned %d vectors for %d texts",
				domain.ErrBackendUnavailable, len(batch), len(texts))
		}

		for _, vec := range batch {
			vectors = append(vectors, normalise(vec))
		}
	}

	return vectors, nil
}

func checkDims(vectors [][]float32, dims int) error {
	for n, vec := range vectors {
		if len(vec) != dims {
			return fmt.Errorf("%w: vector %d has %d dimensions, want %d",
				domain.ErrDimensionMismatch, n, len(vec), dims)
		}
	}
	return nil
}

// normalise returns a unit-length copy of v. Zero vectors stay zero.
func normalise(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}

	out := make([]float32, len(v))
	if sum == 0 {
		return out
	}
	norm := math.Sqrt(sum)
	for n, x := range v {
		out[n] = float32(float64(x) / norm)
	}
	return out
}

func dot(a, b []float32) float64 {
	var sum float64
	for n := range a {
		sum += float64(a[n]) * float64(b[n])
	}
	return sum
}
