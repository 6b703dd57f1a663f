package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/chemmaster/chemmaster/internal/ui/theme"
)

var choiceLabels = []string{"A", "B", "C", "D", "E", "F"}

// Choices renders the options of a multiple-choice question. The caller
// owns the selection; Choices only draws it.
type Choices struct {
	Options  []string
	Selected int // -1 when nothing is selected
	Correct  int
	Revealed bool
}

// Label returns the letter shown for option i.
func Label(i int) string {
	if i >= 0 && i < len(choiceLabels) {
		return choiceLabels[i]
	}
	return fmt.Sprint(i + 1)
}

// View renders one line per option. Once revealed, the correct option is
// green and a wrong selection is red.
func (c Choices) View() string {
	var b strings.Builder
	for i, opt := range c.Options {
		prefix := "  "
		if i == c.Selected {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, Label(i), opt)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case c.Revealed && i == c.Correct:
			style = theme.Correct
			line += "  ✓"
		case c.Revealed && i == c.Selected:
			style = theme.Incorrect
			line += "  ✗"
		case c.Revealed:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == c.Selected:
			style = theme.Selected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
