package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/chemmaster/chemmaster/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with ChemMaster styling. A disabled
// input ignores keys and renders dimmed.
type TextInput struct {
	Model    textinput.Model
	disabled bool
}

// NewTextInput creates a focused text input limited to charLimit runes
// (0 means unlimited).
func NewTextInput(placeholder string, charLimit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "› "
	if charLimit > 0 {
		ti.CharLimit = charLimit
	}
	ti.Focus()
	return TextInput{Model: ti}
}

// Init returns the cursor blink command.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update forwards messages to the wrapped input unless disabled.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if t.disabled {
		return t, nil
	}
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the text input.
func (t TextInput) View() string {
	if t.disabled {
		return lipgloss.NewStyle().Foreground(theme.TextDim).Render(t.Model.View())
	}
	return t.Model.View()
}

// Value returns the trimmed input value.
func (t TextInput) Value() string {
	return strings.TrimSpace(t.Model.Value())
}

// Reset clears the input.
func (t *TextInput) Reset() {
	t.Model.Reset()
}

// SetDisabled blurs or refocuses the input.
func (t *TextInput) SetDisabled(disabled bool) tea.Cmd {
	t.disabled = disabled
	if disabled {
		t.Model.Blur()
		return nil
	}
	return t.Model.Focus()
}

// Disabled reports whether the input is disabled.
func (t TextInput) Disabled() bool { return t.disabled }
