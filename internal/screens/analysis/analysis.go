package analysis

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/chemmaster/chemmaster/internal/gateway"
	"github.com/chemmaster/chemmaster/internal/quiz"
	"github.com/chemmaster/chemmaster/internal/screen"
	"github.com/chemmaster/chemmaster/internal/shell"
	"github.com/chemmaster/chemmaster/internal/ui/components"
	"github.com/chemmaster/chemmaster/internal/ui/layout"
	"github.com/chemmaster/chemmaster/internal/ui/theme"
)

// AnalysisScreen shows the result of a finished quiz and, once it
// arrives, the tutor's assessment.
type AnalysisScreen struct {
	result   quiz.Result
	topic    string
	analysis *gateway.Analysis
}

var _ screen.Screen = (*AnalysisScreen)(nil)
var _ screen.KeyHintProvider = (*AnalysisScreen)(nil)
var _ screen.BackHandler = (*AnalysisScreen)(nil)

// New creates an AnalysisScreen for result. topic is the quiz topic, empty
// for a general quiz.
func New(result quiz.Result, topic string) *AnalysisScreen {
	return &AnalysisScreen{result: result, topic: topic}
}

func (s *AnalysisScreen) Init() tea.Cmd {
	return nil
}

func (s *AnalysisScreen) Title() string {
	return "Kết quả"
}

func (s *AnalysisScreen) HandlesBack() bool { return true }

func (s *AnalysisScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Trang chủ"},
		{Key: "R", Description: "Làm đề mới"},
		{Key: "L", Description: "Bảng xếp hạng"},
	}
}

func (s *AnalysisScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case shell.AnalysisReady:
		a := msg.Analysis
		s.analysis = &a
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return shell.Navigated{View: shell.ViewHome} }
		case "l", "L":
			return s, func() tea.Msg { return shell.Navigated{View: shell.ViewLeaderboard} }
		case "r", "R":
			topic := s.topic
			return s, func() tea.Msg { return shell.QuizRequested{Topic: topic} }
		}
	}
	return s, nil
}

func (s *AnalysisScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	res := s.result

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(components.Center(lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Render("Hoàn thành bài kiểm tra!"), width))
	b.WriteString("\n\n")

	score := lipgloss.NewStyle().Foreground(theme.Highlight).Bold(true).
		Render(fmt.Sprintf("★ %d điểm", res.Score))
	accuracy := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
		Render(fmt.Sprintf("%d%% chính xác", quiz.Accuracy(res)))
	correct := lipgloss.NewStyle().Foreground(theme.Text).
		Render(fmt.Sprintf("%d/%d câu đúng", res.CorrectAnswers, res.TotalQuestions))
	b.WriteString(components.Center(lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Padding(0, 2).
		Render(score+"   "+accuracy+"   "+correct), width))
	b.WriteString("\n\n")

	if s.analysis == nil {
		b.WriteString(components.Center(theme.Hint.Render(shell.MsgAnalyzing), width))
		return b.String()
	}

	a := s.analysis
	b.WriteString(components.Center(components.Card(
		components.Heading("Điểm mạnh", theme.Success)+"\n"+bullets(a.Strengths), cw), width))
	b.WriteString("\n")
	b.WriteString(components.Center(components.Card(
		components.Heading("Cần cải thiện", theme.Error)+"\n"+bullets(a.Weaknesses), cw), width))
	b.WriteString("\n")
	b.WriteString(components.Center(components.Card(
		components.Heading("Lộ trình ôn tập", theme.Accent)+"\n"+a.Roadmap, cw), width))
	b.WriteString("\n")
	b.WriteString(components.Center(components.Card(
		components.Heading("Lời khuyên", theme.Secondary)+"\n"+a.Advice, cw), width))
	if a.Fallback {
		b.WriteString("\n")
		b.WriteString(components.Center(theme.Hint.Render("(AI tạm thời không phân tích được, đây là nhận xét chung)"), width))
	}
	return b.String()
}

func bullets(items []string) string {
	if len(items) == 0 {
		return theme.Hint.Render("(không có)")
	}
	lines := make([]string, len(items))
	for i, it := range items {
		lines[i] = "• " + it
	}
	return strings.Join(lines, "\n")
}
