package services

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestConfig locates the documents and the persisted index.
type IngestConfig struct {
	// DocumentsDir is the directory rebuilt into the index.
	DocumentsDir string

	// IndexPath is the persisted index file.
	IndexPath string

	// Workers bounds parallel extraction during a rebuild.
	Workers int
}

// IngestService turns documents into indexed chunks.
// Ingest and Rebuild are serialised so Save never interleaves with Add.
type IngestService struct {
	index     driven.VectorIndex
	extractor driven.FileTextExtractor
	pipeline  driven.PostProcessorPipeline
	embedder  driven.EmbeddingService
	llm       driven.LLMService
	cfg       IngestConfig

	mu sync.Mutex
}

// NewIngestService creates a new ingest service. llm is only used for status
// reporting and may be nil.
func NewIngestService(
	index driven.VectorIndex,
	extractor driven.FileTextExtractor,
	pipeline driven.PostProcessorPipeline,
	embedder driven.EmbeddingService,
	llm driven.LLMService,
	cfg IngestConfig,
) *IngestService {
	if cfg.Workers < 1 {
		cfg.Workers = domain.DefaultIngestWorkers
	}
	return &IngestService{
		index:     index,
		extractor: extractor,
		pipeline:  pipeline,
		embedder:  embedder,
		llm:       llm,
		cfg:       cfg,
	}
}

// Open loads the persisted index. Returns false when none exists yet.
func (s *IngestService) Open(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	loaded, err := s.index.Load(ctx, s.cfg.IndexPath)
	if err != nil {
		return false, fmt.Errorf("load index %s: %w", s.cfg.IndexPath, err)
	}
	if loaded {
		logger.Info("Loaded index with %d chunks from %s", s.index.Len(), s.cfg.IndexPath)
	}
	return loaded, nil
}

// Ingest adds one file to the index and persists the result.
func (s *IngestService) Ingest(ctx context.Context, path string) (*driving.IngestResult, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: path is empty", domain.ErrInvalidInput)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", domain.ErrInvalidInput, path)
	}
	if !s.extractor.Supports(path) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFileType, filepath.Ext(path))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	logger.Section("Ingest")
	doc, err := s.extractor.ExtractStrict(ctx, path)
	if err != nil {
		return nil, err
	}

	// Extract first so a broken file never lands in the documents directory
	stored, err := s.storeDocument(path)
	if err != nil {
		return nil, err
	}
	doc.Path = stored

	chunks, err := s.pipeline.Process(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("chunk %s: %w", doc.Filename, err)
	}

	result := &driving.IngestResult{Path: stored, Chunks: len(chunks)}
	if len(chunks) == 0 {
		logger.Warn("%s produced no text, nothing indexed", doc.Filename)
		result.IndexSize = s.index.Len()
		return result, nil
	}

	if err := s.index.Add(ctx, chunks); err != nil {
		return nil, fmt.Errorf("index %s: %w", doc.Filename, err)
	}
	if err := s.index.Save(ctx, s.cfg.IndexPath); err != nil {
		return nil, fmt.Errorf("save index: %w", err)
	}

	result.IndexSize = s.index.Len()
	logger.Info("Ingested %s: %d chunks, index size %d", doc.Filename, len(chunks), result.IndexSize)
	return result, nil
}

// storeDocument copies path into the documents directory unless it is
// already inside it, and returns the stored location.
func (s *IngestService) storeDocument(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	absDir, err := filepath.Abs(s.cfg.DocumentsDir)
	if err != nil {
		return "", fmt.Errorf("resolve documents dir: %w", err)
	}
	if rel, err := filepath.Rel(absDir, absPath); err == nil && !escapesDir(rel) {
		return absPath, nil
	}

	if err := os.MkdirAll(absDir, 0700); err != nil {
		return "", fmt.Errorf("create documents dir: %w", err)
	}
	dest := filepath.Join(absDir, filepath.Base(absPath))
	if err := copyFile(absPath, dest); err != nil {
		return "", fmt.Errorf("copy %s into documents: %w", filepath.Base(absPath), err)
	}
	logger.Debug("Copied %s to %s", absPath, dest)
	return dest, nil
}

// extraction is the outcome for one file of a rebuild.
type extraction struct {
	chunks  []domain.Chunk
	skipped bool
}

// Rebuild reprocesses the documents directory into a fresh index. Files that
// cannot be extracted are logged and skipped. An empty directory leaves an
// empty, ready index.
func (s *IngestService) Rebuild(ctx context.Context) (*driving.RebuildResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger.Section("Rebuild")
	if err := os.MkdirAll(s.cfg.DocumentsDir, 0700); err != nil {
		return nil, fmt.Errorf("create documents dir: %w", err)
	}

	files, skipped, err := s.listDocuments()
	if err != nil {
		return nil, err
	}
	logger.Debug("Found %d supported files in %s", len(files), s.cfg.DocumentsDir)

	results := make([]extraction, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)
	for i, file := range files {
		g.Go(func() error {
			results[i] = s.extract(gctx, file)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &driving.RebuildResult{Skipped: skipped}
	var chunks []domain.Chunk
	for i, r := range results {
		if r.skipped {
			result.Skipped = append(result.Skipped, files[i])
			continue
		}
		if len(r.chunks) > 0 {
			result.Files++
			chunks = append(chunks, r.chunks...)
		}
	}

	if len(chunks) == 0 {
		s.index.Reset()
	} else if err := s.index.Build(ctx, chunks); err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}
	if err := s.index.Save(ctx, s.cfg.IndexPath); err != nil {
		return nil, fmt.Errorf("save index: %w", err)
	}

	result.Chunks = s.index.Len()
	logger.Info("Rebuilt index: %d files, %d chunks, %d skipped", result.Files, result.Chunks, len(result.Skipped))
	return result, nil
}

// listDocuments returns absolute paths of supported files sorted by path,
// and unsupported ones. Paths match what Ingest records as the source.
func (s *IngestService) listDocuments() (supported, unsupported []string, err error) {
	root, err := filepath.Abs(s.cfg.DocumentsDir)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve documents dir: %w", err)
	}
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		if s.extractor.Supports(path) {
			supported = append(supported, path)
		} else {
			unsupported = append(unsupported, path)
		}
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("walk %s: %w", s.cfg.DocumentsDir, err)
	}
	slices.Sort(supported)
	return supported, unsupported, nil
}

func (s *IngestService) extract(ctx context.Context, path string) extraction {
	doc, err := s.extractor.ExtractStrict(ctx, path)
	if err != nil {
		if ctx.Err() == nil {
			logger.Warn("Skipping %s: %v", path, err)
		}
		return extraction{skipped: true}
	}
	chunks, err := s.pipeline.Process(ctx, doc)
	if err != nil {
		logger.Warn("Skipping %s: %v", path, err)
		return extraction{skipped: true}
	}
	return extraction{chunks: chunks}
}

// Status reports index readiness and provider details.
func (s *IngestService) Status(_ context.Context) domain.IndexStatus {
	status := domain.IndexStatus{
		Ready:        s.index.Ready(),
		Chunks:       s.index.Len(),
		Dimensions:   s.index.Dimensions(),
		Path:         s.cfg.IndexPath,
		DocumentsDir: s.cfg.DocumentsDir,
	}
	if s.embedder != nil {
		status.EmbeddingModel = s.embedder.ModelName()
	}
	if s.llm != nil {
		status.LLMModel = s.llm.ModelName()
	}
	return status
}

// escapesDir reports whether a relative path leaves its base directory.
func escapesDir(rel string) bool {
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp := dst + ".tmp"
	out, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dst)
}
