// Package chunker provides a recursive boundary-aware text chunking processor.
package chunker

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = domain.DefaultChunkSize

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = domain.DefaultChunkOverlap

// sentenceEnders terminate a sentence when followed by whitespace.
const sentenceEnders = ".!?。！？"

// Processor splits document content into overlapping chunks of at most
// chunkSize characters. It implements the PostProcessor interface.
//
// Split points are chosen greedily from the end of each window, preferring
// a paragraph break, then a line or sentence end, then whitespace, then a
// raw character position. Chunks are exact substrings of the content.
type Processor struct {
	chunkSize int
	overlap   int
	newID     func() string
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		p.chunkSize = size
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		p.overlap = overlap
	}
}

// WithIDFunc replaces the chunk id generator.
func WithIDFunc(fn func() string) Option {
	return func(p *Processor) {
		if fn != nil {
			p.newID = fn
		}
	}
}

// New creates a new chunker processor with the given options.
// It fails with domain.ErrInvalidInput unless 0 <= overlap < chunkSize.
func New(opts ...Option) (*Processor, error) {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
		newID:     func() string { return uuid.New().String() },
	}

	for _, opt := range opts {
		opt(p)
	}

	if err := validate(p.chunkSize, p.overlap); err != nil {
		return nil, err
	}
	return p, nil
}

func validate(size, overlap int) error {
	if size <= 0 {
		return fmt.Errorf("%w: chunk size must be positive, got %d", domain.ErrInvalidInput, size)
	}
	if overlap < 0 {
		return fmt.Errorf("%w: overlap must not be negative, got %d", domain.ErrInvalidInput, overlap)
	}
	if overlap >= size {
		return fmt.Errorf("%w: overlap %d must be smaller than chunk size %d", domain.ErrInvalidInput, overlap, size)
	}
	return nil
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// ChunkSize returns the configured chunk size.
func (p *Processor) ChunkSize() int {
	return p.chunkSize
}

// Overlap returns the configured overlap.
func (p *Processor) Overlap() int {
	return p.overlap
}

// Process splits the document content into chunks.
// Input chunks are ignored; this processor creates new chunks from document content.
func (p *Processor) Process(ctx context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	if doc == nil || doc.Content == "" {
		return nil, nil
	}

	text := []rune(doc.Content)
	spans := split(text, p.chunkSize, p.overlap)

	chunks := make([]domain.Chunk, 0, len(spans))
	for i, s := range spans {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		chunks = append(chunks, domain.Chunk{
			ID:            p.newID(),
			Text:          string(text[s.start:s.end]),
			SourcePath:    doc.Path,
			Filename:      doc.Filename,
			SequenceIndex: i,
			Offset:        s.start,
		})
	}

	return chunks, nil
}

// Split is the standalone form of Process for plain strings. It returns the
// chunk texts in document order.
func Split(content string, size, overlap int) ([]string, error) {
	if err := validate(size, overlap); err != nil {
		return nil, err
	}
	text := []rune(content)
	spans := split(text, size, overlap)
	out := make([]string, len(spans))
	for i, s := range spans {
		out[i] = string(text[s.start:s.end])
	}
	return out, nil
}

type span struct {
	start, end int
}

// split walks the text window by window. Each chunk ends at the best boundary
// in (start+overlap, start+size], which guarantees the next chunk starts after
// the current one and shares at most overlap characters with it.
func split(text []rune, size, overlap int) []span {
	n := len(text)
	if n == 0 {
		return nil
	}

	var spans []span
	start := 0
	for {
		if n-start <= size {
			return append(spans, span{start, n})
		}
		end := splitPoint(text, start+overlap+1, start+size)
		spans = append(spans, span{start, end})
		start = overlapStart(text, end-overlap, end)
	}
}

// splitPoint returns the largest position in [lo, hi] at the strongest
// boundary level found, falling back to hi.
func splitPoint(text []rune, lo, hi int) int {
	for _, isBoundary := range []func([]rune, int) bool{
		isParagraphBreak,
		isSentenceEnd,
		isWordBreak,
	} {
		for p := hi; p >= lo; p-- {
			if isBoundary(text, p) {
				return p
			}
		}
	}
	return hi
}

// overlapStart returns where the next chunk begins: the earliest word start
// in [lo, hi), or lo when the overlap region has no whitespace.
func overlapStart(text []rune, lo, hi int) int {
	if lo >= hi {
		return hi
	}
	for p := lo; p < hi; p++ {
		if isWordBreak(text, p) {
			return p
		}
	}
	return lo
}

func isParagraphBreak(text []rune, p int) bool {
	return p >= 2 && text[p-1] == '\n' && text[p-2] == '\n'
}

func isSentenceEnd(text []rune, p int) bool {
	if p < 1 {
		return false
	}
	if text[p-1] == '\n' {
		return true
	}
	return p >= 2 && unicode.IsSpace(text[p-1]) && strings.ContainsRune(sentenceEnders, text[p-2])
}

func isWordBreak(text []rune, p int) bool {
	return p >= 1 && unicode.IsSpace(text[p-1])
}
