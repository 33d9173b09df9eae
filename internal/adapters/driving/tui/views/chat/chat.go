// Package chat provides the conversation view for the TUI.
package chat

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

// ErrNoChatService indicates that no chat service was provided.
var ErrNoChatService = errors.New("chat service is required")

// View shows the transcript of one conversation above a question input.
type View struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	input      *input.Prompt
	transcript viewport.Model
	spinner    spinner.Model
	statusbar  *status.Bar

	chatService    driving.ChatService
	conversationID string
	ctx            context.Context

	turns    []domain.Turn
	pending  string
	thinking bool
	err      error

	width  int
	height int
	ready  bool
}

// NewView creates a chat view bound to conversationID.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	chatService driving.ChatService,
	conversationID string,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Muted

	bar := status.NewBar(s, km)
	bar.SetMode(status.ModeChat)

	return &View{
		styles:         s,
		keymap:         km,
		input:          input.NewQuestionInput(s),
		transcript:     viewport.New(80, 14),
		spinner:        sp,
		statusbar:      bar,
		chatService:    chatService,
		conversationID: domain.NormaliseConversationID(conversationID),
		ctx:            context.Background(),
		width:          80,
		height:         24,
	}
}

// WithContext sets the context for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the stored history of the conversation.
func (v *View) Init() tea.Cmd {
	return tea.Batch(v.input.Init(), v.loadHistory())
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.HistoryLoaded:
		if msg.Err != nil {
			v.setError(msg.Err)
			return v, nil
		}
		v.turns = msg.Turns
		v.refresh()
		return v, nil

	case messages.AnswerReceived:
		v.handleAnswer(msg)
		return v, nil

	case messages.ConversationReset:
		if msg.Err != nil {
			v.setError(msg.Err)
			return v, nil
		}
		v.turns = nil
		v.err = nil
		v.statusbar.SetState(status.StateReady)
		v.statusbar.SetMessage("Conversation cleared")
		v.refresh()
		return v, nil

	case messages.ErrorOccurred:
		v.thinking = false
		v.setError(msg.Err)
		return v, nil

	case spinner.TickMsg:
		if !v.thinking {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		v.refresh()
		return v, cmd
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()

	switch {
	case keymap.Matches(key, v.keymap.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}

	case keymap.Matches(key, v.keymap.ScrollUp):
		v.transcript.HalfViewUp()
		return v, nil

	case keymap.Matches(key, v.keymap.ScrollDown):
		v.transcript.HalfViewDown()
		return v, nil

	case keymap.Matches(key, v.keymap.ResetConversation):
		if v.thinking {
			return v, nil
		}
		return v, v.reset()

	case keymap.Matches(key, v.keymap.Send):
		question := strings.TrimSpace(v.input.Value())
		if question == "" || v.thinking {
			return v, nil
		}
		v.input.SetValue("")
		v.pending = question
		v.thinking = true
		v.err = nil
		v.statusbar.SetState(status.StateThinking)
		v.refresh()
		return v, tea.Batch(v.spinner.Tick, v.ask(question))
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleAnswer(msg messages.AnswerReceived) {
	question := v.pending
	v.pending = ""
	v.thinking = false

	if msg.Err == nil && msg.Response == nil {
		msg.Err = ErrNoChatService
	}
	if msg.Err != nil {
		v.setError(msg.Err)
		v.refresh()
		return
	}

	// Failed requests are not stored by the service; keep them on screen only.
	v.turns = append(v.turns,
		domain.Turn{Role: domain.RoleUser, Text: question},
		domain.Turn{Role: domain.RoleAssistant, Text: msg.Response.Answer, Sources: msg.Response.Sources},
	)
	v.err = nil
	if msg.Response.State == domain.StateFailed {
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage("answer not recorded")
	} else {
		v.statusbar.SetState(status.StateReady)
		v.statusbar.SetMessage("")
	}
	v.refresh()
}

func (v *View) ask(question string) tea.Cmd {
	svc, id, ctx := v.chatService, v.conversationID, v.ctx
	return func() tea.Msg {
		if svc == nil {
			return messages.ErrorOccurred{Err: ErrNoChatService}
		}
		resp, err := svc.Chat(ctx, question, id)
		return messages.AnswerReceived{Response: resp, Err: err}
	}
}

func (v *View) reset() tea.Cmd {
	svc, id, ctx := v.chatService, v.conversationID, v.ctx
	return func() tea.Msg {
		if svc == nil {
			return messages.ErrorOccurred{Err: ErrNoChatService}
		}
		return messages.ConversationReset{Err: svc.Reset(ctx, id)}
	}
}

func (v *View) loadHistory() tea.Cmd {
	svc, id, ctx := v.chatService, v.conversationID, v.ctx
	return func() tea.Msg {
		if svc == nil {
			return messages.ErrorOccurred{Err: ErrNoChatService}
		}
		turns, err := svc.History(ctx, id)
		return messages.HistoryLoaded{Turns: turns, Err: err}
	}
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

// refresh re-renders the transcript and keeps the newest turn in view.
func (v *View) refresh() {
	v.transcript.SetContent(v.renderTranscript())
	v.transcript.GotoBottom()
}

func (v *View) renderTranscript() string {
	if len(v.turns) == 0 && v.pending == "" {
		return v.styles.Muted.Render("Ask a question about your documents.")
	}

	wrap := lipgloss.NewStyle().Width(max(v.width-4, 20))
	var b strings.Builder
	for _, t := range v.turns {
		b.WriteString(v.renderTurn(t, wrap))
		b.WriteString("\n")
	}
	if v.pending != "" {
		b.WriteString(v.styles.UserLabel.Render("You: "))
		b.WriteString(wrap.Render(v.pending))
		b.WriteString("\n")
		b.WriteString(v.spinner.View())
		b.WriteString(v.styles.Muted.Render(" thinking"))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (v *View) renderTurn(t domain.Turn, wrap lipgloss.Style) string {
	var b strings.Builder
	if t.Role == domain.RoleUser {
		b.WriteString(v.styles.UserLabel.Render("You: "))
	} else {
		b.WriteString(v.styles.AssistantLabel.Render("Assistant: "))
	}
	b.WriteString(wrap.Render(t.Text))
	b.WriteString("\n")
	for _, src := range t.Sources {
		b.WriteString(v.styles.Source.Render("  - " + src.Filename))
		b.WriteString("\n")
	}
	return b.String()
}

// View renders the chat view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	header := v.styles.Title.Render("docchat") + " " +
		v.styles.Muted.Render("conversation: "+v.conversationID)

	sections := []string{header, "", v.transcript.View(), "", v.input.View(), "", v.statusbar.View()}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
	v.transcript.Width = width
	// Header, input, status bar and spacing take eight lines.
	v.transcript.Height = max(height-8, 3)
	v.refresh()
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// ConversationID returns the conversation the view is bound to.
func (v *View) ConversationID() string {
	return v.conversationID
}

// Turns returns the turns currently displayed.
func (v *View) Turns() []domain.Turn {
	return v.turns
}

// Thinking reports whether an answer is outstanding.
func (v *View) Thinking() bool {
	return v.thinking
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// SetQuestion sets the text in the question input.
func (v *View) SetQuestion(q string) {
	v.input.SetValue(q)
}

// Question returns the text in the question input.
func (v *View) Question() string {
	return v.input.Value()
}
