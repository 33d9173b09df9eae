package driven

// PromptStore provides access to LLM prompt templates.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// Unknown names return an error; missing overrides fall back to defaults.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names used throughout the application.
const (
	// PromptChatSystem is the instruction preamble placed first in every chat prompt.
	// This prompt has no format placeholders.
	PromptChatSystem = "chat_system"

	// PromptSummarise condenses text.
	// The prompt template expects %d (max length) and %s (content) placeholders.
	PromptSummarise = "summarise"

	// PromptHistorySummary folds turns evicted from the memory window into a running summary.
	// The template expects %s (previous summary) and %s (evicted turns) placeholders.
	PromptHistorySummary = "history_summary"
)

// PromptStoreAware is an optional interface for services that can use custom prompts.
type PromptStoreAware interface {
	// SetPromptStore sets the prompt store for loading customisable prompts.
	// If not set, the service uses built-in default prompts.
	SetPromptStore(store PromptStore)
}
