package tutor

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/chemmaster/chemmaster/internal/chat"
	"github.com/chemmaster/chemmaster/internal/gateway"
	"github.com/chemmaster/chemmaster/internal/screen"
	"github.com/chemmaster/chemmaster/internal/shell"
	"github.com/chemmaster/chemmaster/internal/ui/components"
	"github.com/chemmaster/chemmaster/internal/ui/layout"
	"github.com/chemmaster/chemmaster/internal/ui/theme"
)

type replyMsg struct {
	OK bool
}

// TutorScreen is a conversation with the AI tutor.
type TutorScreen struct {
	ctx        context.Context
	asker      chat.Asker
	transcript *chat.Transcript
	input      components.TextInput
	pending    string
	waiting    bool
	status     string
}

var _ screen.Screen = (*TutorScreen)(nil)
var _ screen.KeyHintProvider = (*TutorScreen)(nil)

// New creates a TutorScreen that sends questions to asker.
func New(ctx context.Context, asker chat.Asker) *TutorScreen {
	return &TutorScreen{
		ctx:        ctx,
		asker:      asker,
		transcript: chat.NewTranscript(),
		input:      components.NewTextInput("Hỏi gia sư về Hóa học 10...", 500),
	}
}

func (s *TutorScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *TutorScreen) Title() string {
	return "Gia sư AI"
}

func (s *TutorScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Gửi"},
		{Key: "Esc", Description: "Quay lại"},
	}
}

func (s *TutorScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case replyMsg:
		s.waiting = false
		s.pending = ""
		if !msg.OK {
			s.status = shell.MsgBusy
		}
		return s, s.input.SetDisabled(false)

	case tea.KeyMsg:
		if msg.String() == "enter" {
			return s, s.send()
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *TutorScreen) send() tea.Cmd {
	text := s.input.Value()
	if s.waiting || text == "" {
		return nil
	}
	s.waiting = true
	s.pending = text
	s.status = ""
	s.input.Reset()
	s.input.SetDisabled(true)

	ctx, asker, transcript := s.ctx, s.asker, s.transcript
	return func() tea.Msg {
		_, ok := transcript.Send(ctx, asker, text)
		return replyMsg{OK: ok}
	}
}

func (s *TutorScreen) View(width, height int) string {
	bubbleWidth := min(width-10, 76)

	var blocks []string
	for _, m := range s.transcript.Messages() {
		blocks = append(blocks, renderTurn(m, bubbleWidth, width))
	}
	if s.pending != "" {
		blocks = append(blocks, renderTurn(gateway.Turn{Role: gateway.RoleUser, Text: s.pending}, bubbleWidth, width))
		blocks = append(blocks, "  "+theme.Hint.Render("Gia sư đang trả lời..."))
	}
	if s.status != "" {
		blocks = append(blocks, "  "+lipgloss.NewStyle().Foreground(theme.Accent).Render(s.status))
	}

	inputBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Width(width - 4).
		Render(s.input.View())

	// Keep the newest messages in view above the input.
	avail := max(height-lipgloss.Height(inputBox)-1, 1)
	lines := strings.Split(strings.Join(blocks, "\n\n"), "\n")
	if len(lines) > avail {
		lines = lines[len(lines)-avail:]
	}
	history := lipgloss.NewStyle().Height(avail).Render(strings.Join(lines, "\n"))

	return history + "\n" + inputBox
}

func renderTurn(t gateway.Turn, bubbleWidth, width int) string {
	if t.Role == gateway.RoleUser {
		bubble := lipgloss.NewStyle().
			Background(theme.Primary).
			Foreground(theme.Text).
			Padding(0, 1).
			MaxWidth(bubbleWidth).
			Render(t.Text)
		return lipgloss.PlaceHorizontal(width-2, lipgloss.Right, bubble)
	}
	name := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("⚗ Gia sư")
	body := lipgloss.NewStyle().
		Foreground(theme.Text).
		Width(bubbleWidth).
		Render(t.Text)
	return "  " + name + "\n" + lipgloss.NewStyle().PaddingLeft(2).Render(body)
}
