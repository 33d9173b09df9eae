package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// NotReadyAnswer is returned when no index has been built or loaded yet.
const NotReadyAnswer = "The knowledge base is not available yet. Add documents with " +
	"\"docchat ingest <file>\" or run \"docchat rebuild\", then ask again."

// failedAnswerFormat is the apology returned when generation fails.
const failedAnswerFormat = "Sorry, an error occurred while generating the answer: %v"

// defaultChatSystemPrompt is used when no prompt store is configured.
const defaultChatSystemPrompt = "You are a document assistant. Answer using only the documents " +
	"provided as context and cite them by their [filename] tag."

// ChatConfig tunes the answer pipeline.
type ChatConfig struct {
	// K is the number of chunks retrieved as evidence.
	K int

	// Timeout bounds the LLM call.
	Timeout time.Duration

	// MaxTokens caps the generated answer.
	MaxTokens int

	// Temperature is the sampling temperature.
	Temperature float64
}

// DefaultChatConfig returns the default pipeline settings.
func DefaultChatConfig() ChatConfig {
	return ChatConfig{
		K:           domain.DefaultRetrievalK,
		Timeout:     domain.DefaultLLMTimeout,
		MaxTokens:   domain.DefaultLLMMaxTokens,
		Temperature: domain.DefaultLLMTemperature,
	}
}

// ChatService runs the answer pipeline: retrieve evidence, assemble the
// prompt, generate, then record both turns.
type ChatService struct {
	retriever *Retriever
	memory    *MemoryService
	llm       driven.LLMService
	prompts   driven.PromptStore
	cfg       ChatConfig
}

// NewChatService creates a chat service. llm and prompts may be nil; without
// an LLM every answer reports that generation is unavailable.
func NewChatService(
	retriever *Retriever,
	memory *MemoryService,
	llm driven.LLMService,
	prompts driven.PromptStore,
	cfg ChatConfig,
) *ChatService {
	defaults := DefaultChatConfig()
	if cfg.K < 1 {
		cfg.K = defaults.K
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaults.MaxTokens
	}
	return &ChatService{
		retriever: retriever,
		memory:    memory,
		llm:       llm,
		prompts:   prompts,
		cfg:       cfg,
	}
}

// answerRun carries one request through the pipeline states.
type answerRun struct {
	state    domain.PipelineState
	id       string
	question string

	evidence []domain.RetrievedChunk
	messages []driven.ChatMessage
	answer   string
	sources  []domain.SourceRef
	err      error
}

// Chat answers question within the conversation. Only a blank question is an
// error; backend failures produce an apologetic answer.
func (s *ChatService) Chat(ctx context.Context, question, conversationID string) (*domain.ChatResponse, error) {
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("%w: question is empty", domain.ErrInvalidInput)
	}

	id := domain.NormaliseConversationID(conversationID)
	logger.Section("Chat")
	logger.Debug("Conversation %s: %q", id, question)

	unlock := s.memory.Lock(id)
	defer unlock()

	run := &answerRun{
		state:    domain.StateRetrieving,
		id:       id,
		question: question,
	}
	for !run.state.IsTerminal() {
		logger.Debug("Pipeline state: %s", run.state)
		switch run.state {
		case domain.StateRetrieving:
			s.retrieve(ctx, run)
		case domain.StateAssembling:
			s.assemble(ctx, run)
		case domain.StateGenerating:
			s.generate(ctx, run)
		case domain.StateRecording:
			s.record(ctx, run)
		default:
			run.fail(fmt.Errorf("unexpected pipeline state %q", run.state))
		}
	}

	if run.state == domain.StateFailed {
		logger.Warn("Chat failed for %s: %v", id, run.err)
		return &domain.ChatResponse{
			Answer:         fmt.Sprintf(failedAnswerFormat, run.err),
			Sources:        []domain.SourceRef{},
			ConversationID: id,
			State:          domain.StateFailed,
		}, nil
	}

	return &domain.ChatResponse{
		Answer:         run.answer,
		Sources:        run.sources,
		ConversationID: id,
		State:          domain.StateDone,
	}, nil
}

func (r *answerRun) fail(err error) {
	r.err = err
	r.state = domain.StateFailed
}

func (s *ChatService) retrieve(ctx context.Context, run *answerRun) {
	evidence, err := s.retriever.Retrieve(ctx, run.question, s.cfg.K)
	switch {
	case errors.Is(err, domain.ErrIndexNotReady):
		run.answer = NotReadyAnswer
		run.sources = []domain.SourceRef{}
		run.state = domain.StateDone
	case err != nil:
		run.fail(err)
	default:
		run.evidence = evidence
		run.state = domain.StateAssembling
	}
}

func (s *ChatService) assemble(ctx context.Context, run *answerRun) {
	window, err := s.memory.Window(ctx, run.id, 0)
	if err != nil {
		run.fail(err)
		return
	}
	run.messages = assemblePrompt(s.systemPrompt(), run.evidence, window, run.question)
	run.state = domain.StateGenerating
}

func (s *ChatService) generate(ctx context.Context, run *answerRun) {
	if s.llm == nil {
		run.fail(domain.ErrLLMUnavailable)
		return
	}

	genCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	answer, err := s.llm.Chat(genCtx, run.messages, driven.ChatOptions{
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		if errors.Is(genCtx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("language model timed out after %s: %w", s.cfg.Timeout, err)
		}
		run.fail(err)
		return
	}

	run.answer = strings.TrimSpace(answer)
	run.sources = make([]domain.SourceRef, len(run.evidence))
	for i, rc := range run.evidence {
		run.sources[i] = domain.NewSourceRef(rc)
	}
	run.state = domain.StateRecording
}

func (s *ChatService) record(ctx context.Context, run *answerRun) {
	err := s.memory.Append(ctx, run.id,
		domain.Turn{Role: domain.RoleUser, Text: run.question},
		domain.Turn{Role: domain.RoleAssistant, Text: run.answer, Sources: run.sources},
	)
	if err != nil {
		run.fail(err)
		return
	}
	run.state = domain.StateDone
}

func (s *ChatService) systemPrompt() string {
	if s.prompts == nil {
		return defaultChatSystemPrompt
	}
	p, err := s.prompts.Load(driven.PromptChatSystem)
	if err != nil {
		logger.Warn("Using built-in chat prompt: %v", err)
		return defaultChatSystemPrompt
	}
	return p
}

// assemblePrompt orders the prompt as instructions, evidence, dialogue
// history, then the question.
func assemblePrompt(
	preamble string,
	evidence []domain.RetrievedChunk,
	window domain.HistoryWindow,
	question string,
) []driven.ChatMessage {
	var system strings.Builder
	system.WriteString(preamble)
	system.WriteString("\n\nContext documents:\n")
	if len(evidence) == 0 {
		system.WriteString("(no relevant documents were found)\n")
	}
	for _, rc := range evidence {
		fmt.Fprintf(&system, "\n[%s]\n%s\n", rc.Filename, rc.Text)
	}
	if window.Summary != "" {
		fmt.Fprintf(&system, "\nSummary of the earlier conversation:\n%s\n", window.Summary)
	}

	messages := make([]driven.ChatMessage, 0, len(window.Turns)+2)
	messages = append(messages, driven.ChatMessage{Role: driven.RoleSystem, Content: system.String()})
	for _, t := range window.Turns {
		role := driven.RoleAssistant
		if t.Role == domain.RoleUser {
			role = driven.RoleUser
		}
		messages = append(messages, driven.ChatMessage{Role: role, Content: t.Text})
	}
	messages = append(messages, driven.ChatMessage{Role: driven.RoleUser, Content: question})
	return messages
}

// Reset clears the conversation's turns and rolling summary.
func (s *ChatService) Reset(ctx context.Context, conversationID string) error {
	logger.Debug("Resetting conversation %s", domain.NormaliseConversationID(conversationID))
	return s.memory.Reset(ctx, conversationID)
}

// History returns every stored turn of the conversation, oldest first.
func (s *ChatService) History(ctx context.Context, conversationID string) ([]domain.Turn, error) {
	return s.memory.History(ctx, conversationID)
}
