package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/chemmaster/chemmaster/internal/topics"
	"github.com/chemmaster/chemmaster/internal/ui/components"
	"github.com/chemmaster/chemmaster/internal/ui/theme"
)

// renderGreeting returns the welcome line for the logged-in student.
func renderGreeting(user string, cw int) string {
	hello := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).
		Render(fmt.Sprintf("Xin chào, %s!", user))
	sub := lipgloss.NewStyle().Foreground(theme.TextDim).
		Render("Hôm nay bạn muốn ôn tập phần nào?")
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(hello + "\n" + sub)
}

// renderStatsBar renders the student's standing in a double-bordered box
// matching the content width.
func renderStatsBar(best, rank, cw int) string {
	bestStyle := lipgloss.NewStyle().Foreground(theme.Highlight).Bold(true)
	rankStyle := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	rankText := dimStyle.Render("# CHƯA XẾP HẠNG")
	if rank > 0 {
		rankText = rankStyle.Render(fmt.Sprintf("# HẠNG %d", rank))
	}
	stats := fmt.Sprintf("%s  %s",
		bestStyle.Render(fmt.Sprintf("★ %d ĐIỂM CAO NHẤT", best)),
		rankText,
	)

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw-2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

// renderTopicCards lays out the topic catalog as small cards, two per row.
func renderTopicCards(cw int) string {
	cardWidth := max((cw-2)/2, 16)
	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cardWidth-2).
		Padding(0, 1)

	var rows []string
	for i := 0; i < len(topics.Cards); i += 2 {
		var cells []string
		for _, c := range topics.Cards[i:min(i+2, len(topics.Cards))] {
			body := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(c.Icon+" "+c.Name) +
				"\n" + lipgloss.NewStyle().Foreground(theme.TextDim).Render(c.Description)
			cells = append(cells, cardStyle.Render(body))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return components.Center(strings.Join(rows, "\n"), cw)
}

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 26

// renderMenu renders each menu item as a fixed-width button.
func renderMenu(m components.Menu, cw int) string {
	selectedBtn := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Bold(true).
		Foreground(theme.BgDark).
		Background(theme.Highlight).
		Padding(0, 1)

	normalBtn := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Padding(0, 1)

	var buttons []string
	for i, item := range m.Items {
		if i == m.Selected {
			buttons = append(buttons, selectedBtn.Render("▸ "+item.Label))
		} else {
			buttons = append(buttons, normalBtn.Render(item.Label))
		}
	}
	block := strings.Join(buttons, "\n")
	if item := m.Items[m.Selected]; item.Hint != "" {
		block += "\n\n" + theme.Hint.Render(item.Hint)
	}

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(block)
}

// renderLLMBanner renders a warning banner when no LLM API key is configured.
func renderLLMBanner(cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Accent).
		Width(cw).
		Align(lipgloss.Center).
		Render("⚠ Chưa cấu hình khóa API: các tính năng AI đang tắt (xem chemmaster --help)")
}

// renderCabinetFrame wraps content in a double-border frame, centering
// vertically and horizontally within the given dimensions.
func renderCabinetFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width-2).
		Height(height-2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
