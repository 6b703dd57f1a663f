package unavailable

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/chemmaster/chemmaster/internal/router"
	"github.com/chemmaster/chemmaster/internal/screen"
	"github.com/chemmaster/chemmaster/internal/ui/layout"
	"github.com/chemmaster/chemmaster/internal/ui/theme"
)

// Message explains how to turn the AI features on.
const Message = `Tính năng AI chưa sẵn sàng.

Hãy đặt một khóa API rồi khởi động lại ChemMaster:

  export GEMINI_API_KEY=...      (mặc định)
  export ANTHROPIC_API_KEY=...
  export OPENAI_API_KEY=...
  export OPENROUTER_API_KEY=...

hoặc khai báo llm.api_key trong tệp cấu hình.`

// UnavailableScreen is shown in place of an AI feature when no model
// provider is configured.
type UnavailableScreen struct {
	title string
}

var _ screen.Screen = (*UnavailableScreen)(nil)
var _ screen.KeyHintProvider = (*UnavailableScreen)(nil)

// New creates an UnavailableScreen titled after the feature that was
// requested.
func New(title string) *UnavailableScreen {
	return &UnavailableScreen{title: title}
}

func (u *UnavailableScreen) Init() tea.Cmd {
	return nil
}

func (u *UnavailableScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "enter" {
		return u, func() tea.Msg { return router.PopScreenMsg{} }
	}
	return u, nil
}

func (u *UnavailableScreen) View(width, height int) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Accent).
		Foreground(theme.Text).
		Padding(1, 3).
		Render(Message)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

func (u *UnavailableScreen) Title() string {
	return u.title
}

func (u *UnavailableScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Quay lại"},
	}
}
