package topiclist

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/chemmaster/chemmaster/internal/router"
	"github.com/chemmaster/chemmaster/internal/screen"
	"github.com/chemmaster/chemmaster/internal/shell"
	"github.com/chemmaster/chemmaster/internal/topics"
	"github.com/chemmaster/chemmaster/internal/ui/components"
	"github.com/chemmaster/chemmaster/internal/ui/layout"
	"github.com/chemmaster/chemmaster/internal/ui/theme"
)

// TopicListScreen lets the student pick a topic to practise or review.
type TopicListScreen struct {
	cards       []topics.Card
	selected    int
	summaryMode bool
	summaryOpen func(topic string) screen.Screen
}

var _ screen.Screen = (*TopicListScreen)(nil)
var _ screen.KeyHintProvider = (*TopicListScreen)(nil)

// New creates a TopicListScreen. In summary mode Enter opens the study
// summary; otherwise Enter starts a topic quiz and s opens the summary.
func New(summaryMode bool, summaryOpen func(topic string) screen.Screen) *TopicListScreen {
	return &TopicListScreen{
		cards:       topics.Cards,
		summaryMode: summaryMode,
		summaryOpen: summaryOpen,
	}
}

func (s *TopicListScreen) Init() tea.Cmd {
	return nil
}

func (s *TopicListScreen) Title() string {
	if s.summaryMode {
		return "Tóm tắt kiến thức"
	}
	return "Ôn theo chủ đề"
}

func (s *TopicListScreen) KeyHints() []layout.KeyHint {
	if s.summaryMode {
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Chọn"},
			{Key: "Enter", Description: "Xem tóm tắt"},
			{Key: "Esc", Description: "Quay lại"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Chọn"},
		{Key: "Enter", Description: "Làm đề"},
		{Key: "S", Description: "Tóm tắt"},
		{Key: "Esc", Description: "Quay lại"},
	}
}

func (s *TopicListScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(s.cards)-1 {
			s.selected++
		}
	case "enter":
		topic := s.cards[s.selected].Name
		if s.summaryMode {
			return s, s.openSummary(topic)
		}
		return s, func() tea.Msg { return shell.QuizRequested{Topic: topic} }
	case "s":
		return s, s.openSummary(s.cards[s.selected].Name)
	}
	return s, nil
}

func (s *TopicListScreen) openSummary(topic string) tea.Cmd {
	next := s.summaryOpen(topic)
	return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
}

func (s *TopicListScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString("\n")
	for i, c := range s.cards {
		title := fmt.Sprintf("%s  %s", c.Icon, c.Name)
		border := theme.Border
		titleStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
		if i == s.selected {
			border = theme.Highlight
			titleStyle = titleStyle.Foreground(theme.Highlight)
			title = "▸ " + title
		}
		card := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Width(cw-2).
			Padding(0, 2).
			Render(titleStyle.Render(title) + "\n" + theme.Hint.Render(c.Description))
		b.WriteString(components.Center(card, width))
		b.WriteString("\n")
	}
	return b.String()
}
