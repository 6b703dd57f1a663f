package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/chemmaster/chemmaster/internal/screen"
	"github.com/chemmaster/chemmaster/internal/store"
	"github.com/chemmaster/chemmaster/internal/ui/layout"
	"github.com/chemmaster/chemmaster/internal/ui/theme"
)

// maxResults caps how many past quizzes are loaded.
const maxResults = 50

type historyLoadedMsg struct {
	Results []store.QuizResultRecord
	Err     error
}

// HistoryScreen displays the student's past quiz results.
type HistoryScreen struct {
	ctx       context.Context
	eventRepo store.EventRepo
	user      string
	results   []store.QuizResultRecord
	selected  int
	expanded  map[int]bool
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a HistoryScreen listing user's results.
func New(ctx context.Context, eventRepo store.EventRepo, user string) *HistoryScreen {
	return &HistoryScreen{
		ctx:       ctx,
		eventRepo: eventRepo,
		user:      user,
		expanded:  make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	ctx, repo, user := s.ctx, s.eventRepo, s.user
	return func() tea.Msg {
		results, err := repo.QueryQuizResults(ctx, user, store.QueryOpts{Limit: maxResults})
		return historyLoadedMsg{Results: results, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "Lịch sử làm bài"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Chi tiết"},
		{Key: "↑↓", Description: "Chọn"},
		{Key: "Esc", Description: "Quay lại"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.results = msg.Results
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.results)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nLỗi: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Đang tải lịch sử...")
	}
	if len(s.results) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  Bạn chưa làm bài nào. Bắt đầu ôn tập thôi!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, r := range s.results {
		when := r.CompletedAt
		if when.IsZero() {
			when = r.Timestamp
		}
		topic := r.Topic
		if topic == "" {
			topic = "Tổng hợp"
		}

		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		line := fmt.Sprintf("%s%s  %-24s  %3d điểm  %d/%d câu đúng",
			prefix, when.Local().Format("02/01/2006 15:04"), topic, r.Score, r.CorrectAnswers, r.TotalQuestions)
		if r.TimedOut {
			line += "  ⏱ hết giờ"
		}

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, renderAnswers(r.Answers)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// renderAnswers draws one mark per answered question.
func renderAnswers(answers []store.QuizAnswer) string {
	if len(answers) == 0 {
		return lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render("    Không có câu trả lời")
	}
	marks := make([]string, len(answers))
	for i, a := range answers {
		if a.IsCorrect {
			marks[i] = lipgloss.NewStyle().Foreground(theme.Success).Render(fmt.Sprintf("%d✓", a.QuestionID))
		} else {
			marks[i] = lipgloss.NewStyle().Foreground(theme.Error).Render(fmt.Sprintf("%d✗", a.QuestionID))
		}
	}
	return "    " + strings.Join(marks, " ")
}
