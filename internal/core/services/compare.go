package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/logger"
)

// Ensure CompareService implements the interface.
var _ driving.CompareService = (*CompareService)(nil)

// CompareService compares two versions of a document.
type CompareService struct {
	extractor driven.FileTextExtractor
	diff      driven.DiffEngine
}

// NewCompareService creates a new compare service.
func NewCompareService(extractor driven.FileTextExtractor, diff driven.DiffEngine) *CompareService {
	return &CompareService{
		extractor: extractor,
		diff:      diff,
	}
}

// CompareFiles extracts both files and compares their text.
func (s *CompareService) CompareFiles(ctx context.Context, pathA, pathB string) (*domain.DiffResult, error) {
	logger.Section("Compare")

	docA, err := s.extractor.ExtractStrict(ctx, pathA)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", pathA, err)
	}
	docB, err := s.extractor.ExtractStrict(ctx, pathB)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", pathB, err)
	}

	result := s.diff.Compare(docA.Content, docB.Content)
	unified, err := s.diff.Unified(docA.Content, docB.Content, docA.Filename, docB.Filename)
	if err != nil {
		return nil, fmt.Errorf("render diff: %w", err)
	}
	result.UnifiedDiff = unified

	logger.Debug("Compared %s and %s: ratio %.3f, verdict %s",
		docA.Filename, docB.Filename, result.SimilarityRatio, result.Verdict)
	return &result, nil
}

// CompareText compares two texts directly.
func (s *CompareService) CompareText(_ context.Context, a, b string) (*domain.DiffResult, error) {
	result := s.diff.Compare(a, b)
	return &result, nil
}
