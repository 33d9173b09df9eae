package cli

import (
	"bytes"
	"context"
	"strings"

	"github.com/custodia-labs/docchat/internal/adapters/driving/watcher"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

// mockChatService implements driving.ChatService for testing.
type mockChatService struct {
	questions []string
	ids       []string
	resets    []string
	turns     []domain.Turn
	err       error
}

func (m *mockChatService) Chat(_ context.Context, question, id string) (*domain.ChatResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.questions = append(m.questions, question)
	m.ids = append(m.ids, id)
	return &domain.ChatResponse{
		Answer:         "Answer to: " + question,
		Sources:        []domain.SourceRef{{Filename: "guide.md", ContentSnippet: "guide text", Source: "/docs/guide.md"}},
		ConversationID: id,
		State:          domain.StateDone,
	}, nil
}

func (m *mockChatService) Reset(_ context.Context, id string) error {
	m.resets = append(m.resets, id)
	return m.err
}

func (m *mockChatService) History(context.Context, string) ([]domain.Turn, error) {
	return m.turns, m.err
}

// mockSearchService implements driving.SearchService for testing.
type mockSearchService struct {
	results []domain.RetrievedChunk
	lastK   int
	err     error
}

func (m *mockSearchService) Search(_ context.Context, _ string, k int) ([]domain.RetrievedChunk, error) {
	m.lastK = k
	return m.results, m.err
}

// mockIngestService implements driving.IngestService for testing.
type mockIngestService struct {
	ingested []string
	rebuild  *driving.RebuildResult
	status   domain.IndexStatus
	err      error
}

func (m *mockIngestService) Open(context.Context) (bool, error) {
	return m.status.Ready, m.err
}

func (m *mockIngestService) Ingest(_ context.Context, path string) (*driving.IngestResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.ingested = append(m.ingested, path)
	return &driving.IngestResult{Path: path, Chunks: 3, IndexSize: 3 * len(m.ingested)}, nil
}

func (m *mockIngestService) Rebuild(context.Context) (*driving.RebuildResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.rebuild != nil {
		return m.rebuild, nil
	}
	return &driving.RebuildResult{}, nil
}

func (m *mockIngestService) Status(context.Context) domain.IndexStatus {
	return m.status
}

// mockCompareService implements driving.CompareService for testing.
type mockCompareService struct {
	result *domain.DiffResult
	err    error
}

func (m *mockCompareService) CompareFiles(context.Context, string, string) (*domain.DiffResult, error) {
	return m.result, m.err
}

func (m *mockCompareService) CompareText(context.Context, string, string) (*domain.DiffResult, error) {
	return m.result, m.err
}

// mockSettingsService implements driving.SettingsService for testing.
type mockSettingsService struct {
	settings    domain.AppSettings
	validateErr error
	pingErr     error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(s *domain.AppSettings) error {
	m.settings = *s
	return nil
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (m *mockSettingsService) SetEmbeddingProvider(p domain.AIProvider, model, key string) error {
	m.settings.Embedding.Provider = p
	m.settings.Embedding.Model = model
	m.settings.Embedding.APIKey = key
	return nil
}

func (m *mockSettingsService) SetLLMProvider(p domain.AIProvider, model, key string) error {
	m.settings.LLM.Provider = p
	m.settings.LLM.Model = model
	m.settings.LLM.APIKey = key
	return nil
}

func (m *mockSettingsService) Validate() error {
	return m.validateErr
}

func (m *mockSettingsService) ValidateEmbeddingConfig(context.Context) error {
	return m.pingErr
}

func (m *mockSettingsService) ValidateLLMConfig(context.Context) error {
	return m.pingErr
}

// Ensure mocks implement the interfaces.
var (
	_ driving.ChatService     = (*mockChatService)(nil)
	_ driving.SearchService   = (*mockSearchService)(nil)
	_ driving.IngestService   = (*mockIngestService)(nil)
	_ driving.CompareService  = (*mockCompareService)(nil)
	_ driving.SettingsService = (*mockSettingsService)(nil)
)

// testServices groups the mocks installed by setupTestServices.
type testServices struct {
	chat     *mockChatService
	search   *mockSearchService
	ingest   *mockIngestService
	compare  *mockCompareService
	settings *mockSettingsService
}

// resetFlags restores flag variables, which cobra keeps between executions.
func resetFlags() {
	verboseFlag = false
	configFlag = ""
	chatConversation = domain.DefaultConversationID
	chatJSON = false
	conversationID = domain.DefaultConversationID
	historyJSON = false
	searchLimit = 0
	searchJSON = false
	statusJSON = false
	compareJSON = false
	compareDiff = false
	watchDebounce = watcher.DefaultDebounce
}

// setupTestServices installs mock services and returns a cleanup func.
func setupTestServices() (*testServices, func()) {
	ts := &testServices{
		chat:     &mockChatService{},
		search:   &mockSearchService{},
		ingest:   &mockIngestService{},
		compare:  &mockCompareService{},
		settings: &mockSettingsService{settings: domain.DefaultAppSettings()},
	}
	settings := domain.DefaultAppSettings()

	resetFlags()
	prevBootstrap := bootstrap
	bootstrap = nil
	SetServices(&Services{
		Chat:        ts.chat,
		Search:      ts.search,
		Ingest:      ts.ingest,
		Compare:     ts.compare,
		Settings:    ts.settings,
		AppSettings: &settings,
		Supports:    func(string) bool { return true },
	})

	return ts, func() {
		chatService = nil
		searchService = nil
		ingestService = nil
		compareService = nil
		settingsService = nil
		appSettings = nil
		supportsFile = nil
		bootstrap = prevBootstrap
		resetFlags()
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
	}
}

// captureOutput redirects command output into a buffer.
func captureOutput() *bytes.Buffer {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	return buf
}

// executeCommand runs the root command with args and returns its output.
func executeCommand(stdin string, args ...string) (string, error) {
	buf := captureOutput()
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}
