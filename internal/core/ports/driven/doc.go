// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - EmbeddingService: Maps text to vectors for indexing and queries
//   - VectorIndex: Stores chunk vectors, persists them and answers k-NN queries
//   - FileTextExtractor: Reduces PDF, DOCX and text files to plain text
//   - PostProcessor: Turns a document into chunks (the chunker)
//   - ConversationStore: Holds conversation turns
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Answer generation. Without it, chat replies with an explanation.
//   - TokenCounter: Token-budgeted memory windows. Without it, only turn budgets apply.
//   - PromptStore: Custom prompt templates. Without it, built-in prompts are used.
//   - DiffEngine: Document comparison.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
