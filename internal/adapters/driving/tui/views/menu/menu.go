// Package menu provides the main navigation menu view for the TUI.
package menu

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docchat/internal/core/domain"
)

// Item represents a single menu option.
type Item struct {
	Label string
	View  messages.ViewType
	Quit  bool // If true, selecting this item quits the app
}

// View is the start screen: what is indexed, which conversation is
// active, and where to go next.
type View struct {
	styles       *styles.Styles
	items        []Item
	selected     int
	status       *domain.IndexStatus
	conversation string
	width        int
	height       int
	ready        bool
}

// NewView creates a new menu view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles: s,
		items: []Item{
			{Label: "Chat", View: messages.ViewChat},
			{Label: "Search", View: messages.ViewSearch},
			{Label: "Quit", Quit: true},
		},
		selected:     0,
		conversation: domain.DefaultConversationID,
		width:        80,
		height:       24,
	}
}

// SetConversation sets the conversation named on the start screen.
func (v *View) SetConversation(id string) *View {
	v.conversation = domain.NormaliseConversationID(id)
	return v
}

// SetStatus records the latest index status.
func (v *View) SetStatus(status domain.IndexStatus) {
	v.status = &status
}

// Init initialises the menu view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.ready = true
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if v.selected > 0 {
				v.selected--
			}
			return v, nil

		case "down", "j":
			if v.selected < len(v.items)-1 {
				v.selected++
			}
			return v, nil

		case "enter":
			item := v.items[v.selected]
			if item.Quit {
				return v, tea.Quit
			}
			return v, func() tea.Msg {
				return messages.ViewChanged{View: item.View}
			}

		case "q":
			return v, tea.Quit
		}
	}

	return v, nil
}

// View renders the menu.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder

	// Title
	title := v.styles.Title.Render("docchat")
	b.WriteString(title)
	b.WriteString("\n\n")

	b.WriteString(v.styles.Muted.Render("Chat with your documents"))
	b.WriteString("\n\n")
	for _, line := range v.summary() {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	// Menu items
	for i, item := range v.items {
		cursor := "  "
		style := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

		if i == v.selected {
			cursor = "> "
			style = lipgloss.NewStyle().
				Foreground(lipgloss.Color("86")).
				Bold(true)
		}

		line := cursor + style.Render(item.Label)
		b.WriteString(line)
		b.WriteString("\n")
	}

	// Footer with keybindings
	b.WriteString("\n")
	footer := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Render("[j/k] Navigate  [Enter] Select  [q] Quit")
	b.WriteString(footer)

	return b.String()
}

// summary describes the index and the active conversation.
func (v *View) summary() []string {
	conversation := v.styles.Muted.Render("Conversation: ") + v.conversation
	switch {
	case v.status == nil:
		return []string{v.styles.Muted.Render("Index: checking..."), conversation}
	case !v.status.Ready:
		return []string{
			v.styles.Error.Render("Index not built.") + " " +
				v.styles.Muted.Render(fmt.Sprintf("Run 'docchat rebuild' to index %s", v.status.DocumentsDir)),
			conversation,
		}
	}

	lines := []string{
		v.styles.Muted.Render("Index: ") + fmt.Sprintf("%d chunks from %s", v.status.Chunks, v.status.DocumentsDir),
	}
	models := v.status.EmbeddingModel
	if v.status.LLMModel != "" {
		models += ", " + v.status.LLMModel
	}
	if models != "" {
		lines = append(lines, v.styles.Muted.Render("Models: ")+models)
	}
	return append(lines, conversation)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Selected returns the currently selected index.
func (v *View) Selected() int {
	return v.selected
}
