package quiz

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	qz "github.com/chemmaster/chemmaster/internal/quiz"
	"github.com/chemmaster/chemmaster/internal/ui/components"
	"github.com/chemmaster/chemmaster/internal/ui/theme"
)

// lowTime turns the countdown red.
const lowTime = time.Minute

// renderQuestionView renders the active question display.
func (s *QuizScreen) renderQuestionView(width, height int) string {
	r := s.runner
	q := r.Current()
	idx := r.State().Index

	var b strings.Builder

	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  Câu %d/%d", idx+1, r.Len()))

	clockColor := theme.Accent
	if r.Remaining() <= lowTime {
		clockColor = theme.Error
	}
	infoRight := lipgloss.NewStyle().Foreground(difficultyColor(q.Difficulty)).Render(string(q.Difficulty)) +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render("  "+q.Topic+"  ") +
		lipgloss.NewStyle().Foreground(clockColor).Bold(true).Render("⏱ "+qz.FormatClock(r.Remaining()))

	infoLine := infoLeft
	if pad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4; pad > 0 {
		infoLine += strings.Repeat(" ", pad) + infoRight
	}
	b.WriteString(infoLine)
	b.WriteString("\n")

	bar := components.NewProgressBar("", float64(r.Remaining())/float64(qz.DefaultTimeLimit), false, width-4)
	if r.Remaining() <= lowTime {
		bar.Fill = theme.Error
	}
	b.WriteString("  " + bar.View())
	b.WriteString("\n\n")

	textWidth := min(width-8, 80)
	b.WriteString(components.Center(lipgloss.NewStyle().
		Width(textWidth).
		Foreground(theme.Text).
		Bold(true).
		Render(q.Text), width))
	b.WriteString("\n\n")

	sel, ok := r.Selected()
	if !ok {
		sel = -1
	}
	choices := components.Choices{
		Options:  q.Options,
		Selected: sel,
		Correct:  q.CorrectIndex,
		Revealed: r.Revealed(),
	}
	b.WriteString(components.Center(lipgloss.NewStyle().Width(textWidth).Render(choices.View()), width))

	if r.Revealed() && q.Explanation != "" {
		b.WriteString("\n")
		exp := lipgloss.NewStyle().
			Width(textWidth).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Secondary).
			Padding(0, 1).
			Foreground(theme.Text).
			Render("💡 " + q.Explanation)
		b.WriteString(components.Center(exp, width))
		b.WriteString("\n")
	}

	if s.hint != "" {
		b.WriteString("\n")
		b.WriteString(components.Center(lipgloss.NewStyle().Foreground(theme.Accent).Render(s.hint), width))
	}

	return b.String()
}

func difficultyColor(d qz.Difficulty) color.Color {
	switch d {
	case qz.Easy:
		return theme.Success
	case qz.Hard:
		return theme.Error
	default:
		return theme.Accent
	}
}

// renderQuitConfirm renders the quit confirmation dialog.
func renderQuitConfirm(width, height int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render("Bỏ dở bài làm?"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Kết quả sẽ không được lưu vào bảng xếp hạng."))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render("[Y] Có, quay về trang chủ"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Render("[N] Không, làm tiếp"))

	return b.String()
}
