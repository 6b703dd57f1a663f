package summary

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/chemmaster/chemmaster/internal/gateway"
	"github.com/chemmaster/chemmaster/internal/router"
	"github.com/chemmaster/chemmaster/internal/screen"
	"github.com/chemmaster/chemmaster/internal/shell"
	"github.com/chemmaster/chemmaster/internal/ui/components"
	"github.com/chemmaster/chemmaster/internal/ui/layout"
	"github.com/chemmaster/chemmaster/internal/ui/theme"
)

// Summarizer produces a study summary for a topic.
type Summarizer interface {
	GetTopicSummary(ctx context.Context, topic string) (gateway.StudySummary, error)
}

type summaryLoadedMsg struct {
	Summary gateway.StudySummary
	Err     error
}

// SummaryScreen displays a study summary for one topic.
type SummaryScreen struct {
	ctx     context.Context
	source  Summarizer
	topic   string
	summary *gateway.StudySummary
	errMsg  string
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a SummaryScreen that loads topic from source.
func New(ctx context.Context, source Summarizer, topic string) *SummaryScreen {
	return &SummaryScreen{ctx: ctx, source: source, topic: topic}
}

func (s *SummaryScreen) Init() tea.Cmd {
	ctx, source, topic := s.ctx, s.source, s.topic
	return func() tea.Msg {
		sum, err := source.GetTopicSummary(ctx, topic)
		return summaryLoadedMsg{Summary: sum, Err: err}
	}
}

func (s *SummaryScreen) Title() string {
	return "Tóm tắt: " + s.topic
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Xong"},
		{Key: "Esc", Description: "Quay lại"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case summaryLoadedMsg:
		if msg.Err != nil {
			s.errMsg = errorText(msg.Err)
			return s, nil
		}
		sum := msg.Summary
		s.summary = &sum
	case tea.KeyMsg:
		if msg.String() == "enter" {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func errorText(err error) string {
	if errors.Is(err, gateway.ErrInFlight) {
		return shell.MsgBusy
	}
	return fmt.Sprintf("Không tải được tóm tắt: %v", err)
}

func (s *SummaryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render("\n\n" + s.errMsg)
	}
	if s.summary == nil {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render(fmt.Sprintf("\n\n  AI đang tóm tắt chủ đề %s...", s.topic))
	}

	sum := s.summary
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(components.Center(lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Render(sum.Topic), width))
	b.WriteString("\n\n")

	b.WriteString(components.Center(components.Card(
		components.Heading("Tổng quan", theme.Secondary)+"\n"+sum.Overview, cw), width))
	b.WriteString("\n")

	points := make([]string, len(sum.KeyPoints))
	for i, p := range sum.KeyPoints {
		points[i] = fmt.Sprintf("%d. %s", i+1, p)
	}
	b.WriteString(components.Center(components.Card(
		components.Heading("Ý chính", theme.Highlight)+"\n"+strings.Join(points, "\n"), cw), width))
	b.WriteString("\n")

	if sum.Example != "" {
		b.WriteString(components.Center(components.Card(
			components.Heading("Ví dụ", theme.Accent)+"\n"+sum.Example, cw), width))
	}
	return b.String()
}
