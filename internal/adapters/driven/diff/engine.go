// Package diff compares document texts using go-difflib.
package diff

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Ensure Engine implements the interface.
var _ driven.DiffEngine = (*Engine)(nil)

// unifiedContext is the number of context lines in unified output.
const unifiedContext = 3

// Engine computes line changes and a character-level similarity ratio.
type Engine struct{}

// New creates a diff engine.
func New() *Engine {
	return &Engine{}
}

// Compare counts added and removed lines and computes the similarity ratio
// over the full texts. The ratio is symmetric in the sense of difflib:
// 2*M/T where M is matched characters and T the total length.
func (e *Engine) Compare(a, b string) domain.DiffResult {
	linesA := splitLines(a)
	linesB := splitLines(b)

	result := domain.DiffResult{
		SampleAdded:   []string{},
		SampleRemoved: []string{},
	}

	m := difflib.NewMatcher(linesA, linesB)
	for _, op := range m.GetOpCodes() {
		switch op.Tag {
		case 'd':
			result.RemovedLines += op.I2 - op.I1
			result.SampleRemoved = appendSample(result.SampleRemoved, linesA[op.I1:op.I2])
		case 'i':
			result.AddedLines += op.J2 - op.J1
			result.SampleAdded = appendSample(result.SampleAdded, linesB[op.J1:op.J2])
		case 'r':
			result.RemovedLines += op.I2 - op.I1
			result.AddedLines += op.J2 - op.J1
			result.SampleRemoved = appendSample(result.SampleRemoved, linesA[op.I1:op.I2])
			result.SampleAdded = appendSample(result.SampleAdded, linesB[op.J1:op.J2])
		}
	}

	result.SimilarityRatio = similarity(a, b)
	result.Identical = result.AddedLines == 0 && result.RemovedLines == 0
	result.Verdict = domain.ClassifyDiff(result.AddedLines, result.RemovedLines, result.SimilarityRatio)
	return result
}

// Unified renders a unified diff between a and b.
func (e *Engine) Unified(a, b, fromName, toName string) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(a),
		B:        difflib.SplitLines(b),
		FromFile: fromName,
		ToFile:   toName,
		Context:  unifiedContext,
	})
}

// similarity runs the matcher over characters.
func similarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	return difflib.NewMatcher(runes(a), runes(b)).Ratio()
}

func runes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

// splitLines drops the trailing empty element so "a\n" is one line.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

func appendSample(samples, lines []string) []string {
	for _, line := range lines {
		if len(samples) >= domain.DiffSampleSize {
			break
		}
		samples = append(samples, line)
	}
	return samples
}
