package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/docchat/internal/adapters/driven/ai"
	"github.com/custodia-labs/docchat/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docchat/internal/adapters/driven/diff"
	"github.com/custodia-labs/docchat/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docchat/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docchat/internal/adapters/driven/tokens"
	"github.com/custodia-labs/docchat/internal/adapters/driven/vectorindex"
	"github.com/custodia-labs/docchat/internal/adapters/driving/cli"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/services"
	"github.com/custodia-labs/docchat/internal/logger"
	"github.com/custodia-labs/docchat/internal/normalisers"
	"github.com/custodia-labs/docchat/internal/postprocessors"
)

// bootstrap wires the adapters into the core services.
func bootstrap(ctx context.Context, opts cli.Options) (*cli.Services, func(), error) {
	home, err := file.HomeDir()
	if err != nil {
		return nil, nil, fmt.Errorf("resolving home directory: %w", err)
	}

	var configStore *file.ConfigStore
	if opts.ConfigPath != "" {
		configStore, err = file.OpenConfigFile(opts.ConfigPath)
	} else {
		configStore, err = file.NewConfigStore(home)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("loading configuration: %w", err)
	}

	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator(), home)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, nil, fmt.Errorf("reading settings: %w", err)
	}

	svcs := &cli.Services{Settings: settingsService, AppSettings: settings}
	if opts.SettingsOnly {
		return svcs, func() {}, nil
	}

	if err := settingsService.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%w. Run 'docchat settings' to review", err)
	}

	prompts, err := file.NewPromptStore(filepath.Join(home, "prompts"))
	if err != nil {
		return nil, nil, fmt.Errorf("opening prompt store: %w", err)
	}

	aiResult, err := ai.Init(ctx, &settings.Embedding, &settings.LLM, prompts)
	if err != nil {
		return nil, nil, err
	}
	for _, w := range aiResult.Warnings {
		logger.Warn("%s", w)
	}

	conversations, err := openConversationStore(settings)
	if err != nil {
		aiResult.Close()
		return nil, nil, err
	}

	done := func() {
		if err := conversations.Close(); err != nil {
			logger.Warn("closing conversation store: %v", err)
		}
		aiResult.Close()
	}

	pipeline, err := postprocessors.FromConfig(configStore)
	if err != nil {
		done()
		return nil, nil, fmt.Errorf("building chunker: %w", err)
	}

	index := vectorindex.New(aiResult.EmbeddingService,
		vectorindex.WithRateLimit(settings.Ingest.EmbedRatePerSecond))
	extractors := normalisers.NewDefaultRegistry()
	retriever := services.NewRetriever(index, aiResult.EmbeddingService)

	mem := services.NewMemoryService(conversations, settings.Memory)
	if settings.Memory.MaxTokens > 0 {
		mem.SetTokenCounter(tokens.New(settings.LLM.Model))
	}
	if aiResult.LLMService != nil {
		mem.SetSummariser(aiResult.LLMService, prompts)
	}

	ingest := services.NewIngestService(index, extractors, pipeline,
		aiResult.EmbeddingService, aiResult.LLMService, services.IngestConfig{
			DocumentsDir: settings.Paths.Documents,
			IndexPath:    settings.Paths.Index,
			Workers:      settings.Ingest.Workers,
		})
	if _, err := ingest.Open(ctx); err != nil {
		// A corrupt index is reported by status and fixed by rebuild.
		logger.Warn("%v. Run 'docchat rebuild' to recreate it", err)
	}

	svcs.Chat = services.NewChatService(retriever, mem, aiResult.LLMService, prompts, services.ChatConfig{
		K:           settings.Retrieval.K,
		Timeout:     settings.LLM.Timeout,
		MaxTokens:   settings.LLM.MaxTokens,
		Temperature: settings.LLM.Temperature,
	})
	svcs.Search = services.NewSearchService(retriever)
	svcs.Ingest = ingest
	svcs.Compare = services.NewCompareService(extractors, diff.New())
	svcs.Supports = extractors.Supports

	return svcs, done, nil
}

// openConversationStore selects the configured memory backend.
func openConversationStore(settings *domain.AppSettings) (driven.ConversationStore, error) {
	switch settings.Memory.Backend {
	case domain.MemoryBackendSQLite:
		store, err := sqlite.NewStore(settings.Paths.Data)
		if err != nil {
			return nil, fmt.Errorf("opening conversation database: %w", err)
		}
		return store, nil
	default:
		return memory.NewConversationStore(), nil
	}
}
