// Package tokens provides token counting for the conversation memory budget.
package tokens

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/logger"
)

// DefaultEncoding is used when the model has no known encoding.
const DefaultEncoding = "cl100k_base"

// approxEncoding names the fallback counter.
const approxEncoding = "approx-4"

// Ensure the counters implement the interface.
var (
	_ driven.TokenCounter = (*TiktokenCounter)(nil)
	_ driven.TokenCounter = ApproxCounter{}
)

// TiktokenCounter counts tokens with a BPE encoding.
type TiktokenCounter struct {
	encoding string
	mu       sync.Mutex
	tke      *tiktoken.Tiktoken
}

// NewTiktokenCounter resolves modelOrEncoding as an encoding name first,
// then as a model name, then falls back to DefaultEncoding.
func NewTiktokenCounter(modelOrEncoding string) (*TiktokenCounter, error) {
	if modelOrEncoding == "" {
		modelOrEncoding = DefaultEncoding
	}

	if tke, err := tiktoken.GetEncoding(modelOrEncoding); err == nil {
		return &TiktokenCounter{encoding: modelOrEncoding, tke: tke}, nil
	}
	if tke, err := tiktoken.EncodingForModel(modelOrEncoding); err == nil {
		return &TiktokenCounter{encoding: modelOrEncoding, tke: tke}, nil
	}

	tke, err := tiktoken.GetEncoding(DefaultEncoding)
	if err != nil {
		return nil, err
	}
	return &TiktokenCounter{encoding: DefaultEncoding, tke: tke}, nil
}

// Count returns the number of BPE tokens in text.
func (c *TiktokenCounter) Count(text string) int {
	if text == "" {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tke.Encode(text, nil, nil))
}

// Encoding names the tokenizer in use.
func (c *TiktokenCounter) Encoding() string {
	return c.encoding
}

// ApproxCounter estimates one token per four bytes, rounding up.
type ApproxCounter struct{}

// Count returns the estimated token count.
func (ApproxCounter) Count(text string) int {
	return (len(text) + 3) / 4
}

// Encoding names the tokenizer in use.
func (ApproxCounter) Encoding() string {
	return approxEncoding
}

// New returns a tiktoken counter for model, or ApproxCounter when the
// encoding tables cannot be loaded (they are fetched on first use).
func New(model string) driven.TokenCounter {
	c, err := NewTiktokenCounter(model)
	if err != nil {
		logger.Warn("token counter: %v, using approximation", err)
		return ApproxCounter{}
	}
	return c
}
