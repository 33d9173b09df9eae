// Package blankfilter drops chunks that carry no text.
package blankfilter

import (
	"context"
	"strings"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// Processor removes whitespace-only chunks and renumbers the survivors so
// sequence indexes stay contiguous.
type Processor struct{}

// New creates a blank filter.
func New() *Processor {
	return &Processor{}
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "blank_filter"
}

// Process filters chunks produced by an earlier processor.
func (p *Processor) Process(_ context.Context, _ *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error) {
	if len(chunks) == 0 {
		return chunks, nil
	}
	out := make([]domain.Chunk, 0, len(chunks))
	for _, c := range chunks {
		if strings.TrimSpace(c.Text) == "" {
			continue
		}
		c.SequenceIndex = len(out)
		out = append(out, c)
	}
	return out, nil
}
