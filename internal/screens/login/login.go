package login

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/chemmaster/chemmaster/internal/screen"
	"github.com/chemmaster/chemmaster/internal/shell"
	"github.com/chemmaster/chemmaster/internal/ui/components"
	"github.com/chemmaster/chemmaster/internal/ui/layout"
	"github.com/chemmaster/chemmaster/internal/ui/theme"
)

const tickInterval = 400 * time.Millisecond

const flaskArt = `    ┌─┐
    │ │
   ╱   ╲
  ╱     ╲
 ╱───────╲
╱_________╲`

// bubble frames rise through the flask neck
var bubbleFrames = []string{"   °  ", "  ° ° ", " °  ° ", "  °   "}

type tickMsg time.Time

// LoginScreen asks for the student's name.
type LoginScreen struct {
	input     components.TextInput
	tickCount int
	errMsg    string
}

var _ screen.Screen = (*LoginScreen)(nil)
var _ screen.KeyHintProvider = (*LoginScreen)(nil)

// New creates a LoginScreen.
func New() *LoginScreen {
	return &LoginScreen{
		input: components.NewTextInput("Nhập tên của bạn...", 40),
	}
}

func (l *LoginScreen) Title() string {
	return "Đăng nhập"
}

func (l *LoginScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Bắt đầu học"},
		{Key: "Ctrl+C", Description: "Thoát"},
	}
}

func (l *LoginScreen) Init() tea.Cmd {
	return tea.Batch(l.input.Init(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (l *LoginScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		l.tickCount++
		return l, tick()

	case tea.KeyMsg:
		if msg.String() == "enter" {
			name := l.input.Value()
			if name == "" {
				l.errMsg = "Tên không được để trống."
				return l, nil
			}
			return l, func() tea.Msg { return shell.LoggedIn{Name: name} }
		}
		l.errMsg = ""
	}

	var cmd tea.Cmd
	l.input, cmd = l.input.Update(msg)
	return l, cmd
}

func (l *LoginScreen) View(width, height int) string {
	bubbles := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Render(bubbleFrames[l.tickCount%len(bubbleFrames)])
	flask := lipgloss.NewStyle().Foreground(theme.Accent).Render(flaskArt)

	sections := []string{
		bubbles,
		flask,
		"",
		RenderBanner(width),
		"",
		lipgloss.NewStyle().
			Foreground(theme.Text).
			Bold(true).
			Render("Gia sư Hóa học lớp 10 của bạn"),
		"",
		lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Primary).
			Padding(0, 1).
			Width(min(width-4, 46)).
			Render(l.input.View()),
	}
	if l.errMsg != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Error).Render(l.errMsg))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, strings.Join(sections, "\n")))
}
