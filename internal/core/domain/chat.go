package domain

// SnippetLength is the number of characters of chunk text returned in a source citation.
const SnippetLength = 200

// SourceRef is a citation returned to callers instead of the full chunk text.
type SourceRef struct {
	Filename       string `json:"filename"`
	ContentSnippet string `json:"content"`
	Source         string `json:"source"`
}

// NewSourceRef builds a citation from retrieved evidence, truncating the text
// to SnippetLength characters followed by "...".
func NewSourceRef(rc RetrievedChunk) SourceRef {
	return SourceRef{
		Filename:       rc.Filename,
		ContentSnippet: Snippet(rc.Text, SnippetLength),
		Source:         rc.SourcePath,
	}
}

// Snippet truncates text to at most n runes, appending "..." when it was cut.
func Snippet(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}

// ChatResponse is the result of one chat call.
type ChatResponse struct {
	Answer         string      `json:"answer"`
	Sources        []SourceRef `json:"sources"`
	ConversationID string      `json:"conversation_id"`

	// State is the terminal pipeline state, StateDone or StateFailed.
	State PipelineState `json:"state"`
}

// PipelineState is a stage of the answer pipeline.
type PipelineState string

// Pipeline states, in the order a successful request visits them.
const (
	StateRetrieving PipelineState = "retrieving"
	StateAssembling PipelineState = "assembling"
	StateGenerating PipelineState = "generating"
	StateRecording  PipelineState = "recording"
	StateDone       PipelineState = "done"

	// StateFailed is terminal and reachable from any other state.
	StateFailed PipelineState = "failed"
)

// IsTerminal returns true for states that end a request.
func (s PipelineState) IsTerminal() bool {
	return s == StateDone || s == StateFailed
}
