package driven

// TokenCounter estimates how many model tokens a text occupies.
type TokenCounter interface {
	// Count returns the number of tokens in text.
	Count(text string) int

	// Encoding names the tokenizer in use.
	Encoding() string
}
