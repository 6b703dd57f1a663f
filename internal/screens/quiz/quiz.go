package quiz

import (
	"errors"
	"time"

	tea "charm.land/bubbletea/v2"

	qz "github.com/chemmaster/chemmaster/internal/quiz"
	"github.com/chemmaster/chemmaster/internal/screen"
	"github.com/chemmaster/chemmaster/internal/shell"
	"github.com/chemmaster/chemmaster/internal/ui/layout"
)

// QuizScreen runs a quiz against its countdown.
type QuizScreen struct {
	runner      *qz.Runner
	topic       string
	confirmQuit bool
	done        bool
	hint        string
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.BackHandler = (*QuizScreen)(nil)

// New creates a QuizScreen for runner. topic is shown in the header; empty
// means a general quiz.
func New(runner *qz.Runner, topic string) *QuizScreen {
	return &QuizScreen{runner: runner, topic: topic}
}

func (s *QuizScreen) Init() tea.Cmd {
	return tickCmd()
}

func (s *QuizScreen) Title() string {
	if s.topic == "" {
		return "Ôn tập tổng hợp"
	}
	return s.topic
}

func (s *QuizScreen) HandlesBack() bool { return true }

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	if s.confirmQuit {
		return []layout.KeyHint{
			{Key: "Y", Description: "Bỏ bài"},
			{Key: "N", Description: "Làm tiếp"},
		}
	}
	if s.runner.Revealed() {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Câu tiếp"},
			{Key: "Esc", Description: "Thoát"},
		}
	}
	return []layout.KeyHint{
		{Key: "1-4 ↑↓", Description: "Chọn"},
		{Key: "E", Description: "Giải thích"},
		{Key: "Enter", Description: "Câu tiếp"},
		{Key: "Esc", Description: "Thoát"},
	}
}

func (s *QuizScreen) View(width, height int) string {
	if s.confirmQuit {
		return renderQuitConfirm(width, height)
	}
	return s.renderQuestionView(width, height)
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case timerTickMsg:
		return s.handleTimerTick()
	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *QuizScreen) handleTimerTick() (screen.Screen, tea.Cmd) {
	if s.done {
		return s, nil
	}
	if res := s.runner.Tick(); res != nil {
		return s, s.finish(*res)
	}
	return s, tickCmd()
}

func (s *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.done {
		return s, nil
	}
	key := msg.String()

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			s.confirmQuit = false
			s.done = true
			return s, func() tea.Msg { return shell.Navigated{View: shell.ViewHome} }
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	s.hint = ""
	switch key {
	case "esc":
		s.confirmQuit = true
	case "1", "2", "3", "4":
		s.selectOption(int(key[0] - '1'))
	case "up", "k":
		if sel, ok := s.runner.Selected(); ok {
			s.selectOption(sel - 1)
		} else {
			s.selectOption(0)
		}
	case "down", "j":
		if sel, ok := s.runner.Selected(); ok {
			s.selectOption(sel + 1)
		} else {
			s.selectOption(0)
		}
	case "e", "E":
		if err := s.runner.Reveal(); errors.Is(err, qz.ErrNoSelection) {
			s.hint = "Hãy chọn một đáp án trước khi xem giải thích."
		}
	case "enter":
		res, err := s.runner.Advance()
		if errors.Is(err, qz.ErrNoSelection) {
			s.hint = "Hãy chọn một đáp án."
			return s, nil
		}
		if res != nil {
			return s, s.finish(*res)
		}
	}
	return s, nil
}

// selectOption ignores out-of-range indexes and locked selections.
func (s *QuizScreen) selectOption(idx int) {
	_ = s.runner.Select(idx)
}

func (s *QuizScreen) finish(res qz.Result) tea.Cmd {
	s.done = true
	return func() tea.Msg { return FinishedMsg{Result: res} }
}

// tickCmd returns a 1-second tick command.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return timerTickMsg(t)
	})
}
