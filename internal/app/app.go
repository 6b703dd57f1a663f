package app

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/chemmaster/chemmaster/internal/gateway"
	"github.com/chemmaster/chemmaster/internal/leaderboard"
	"github.com/chemmaster/chemmaster/internal/profile"
	"github.com/chemmaster/chemmaster/internal/quiz"
	"github.com/chemmaster/chemmaster/internal/router"
	"github.com/chemmaster/chemmaster/internal/screen"
	"github.com/chemmaster/chemmaster/internal/screens/analysis"
	"github.com/chemmaster/chemmaster/internal/screens/board"
	"github.com/chemmaster/chemmaster/internal/screens/history"
	"github.com/chemmaster/chemmaster/internal/screens/home"
	"github.com/chemmaster/chemmaster/internal/screens/login"
	quizscreen "github.com/chemmaster/chemmaster/internal/screens/quiz"
	"github.com/chemmaster/chemmaster/internal/screens/summary"
	"github.com/chemmaster/chemmaster/internal/screens/topiclist"
	"github.com/chemmaster/chemmaster/internal/screens/tutor"
	"github.com/chemmaster/chemmaster/internal/screens/unavailable"
	"github.com/chemmaster/chemmaster/internal/shell"
	"github.com/chemmaster/chemmaster/internal/store"
	"github.com/chemmaster/chemmaster/internal/ui/layout"
	"github.com/chemmaster/chemmaster/internal/ui/theme"
)

// Deps are the services the terminal UI drives.
type Deps struct {
	// Gateway is nil when no model provider is configured.
	Gateway *gateway.Gateway
	Board   *leaderboard.Store
	Profile *profile.Profile
	Events  store.EventRepo
	// DataDir receives leaderboard exports.
	DataDir string
	Logger  *zap.Logger
}

// AppModel is the root Bubble Tea model. It owns the shell state and
// performs the side effects of each action after reducing it.
type AppModel struct {
	ctx    context.Context
	deps   Deps
	logger *zap.Logger
	state  shell.State
	router *router.Router
	width  int
	height int
}

// newAppModel creates an AppModel. A non-empty user starts logged in.
func newAppModel(ctx context.Context, deps Deps, user string) AppModel {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	m := AppModel{
		ctx:    ctx,
		deps:   deps,
		logger: logger.Named("app"),
	}
	m.state = shell.Reduce(shell.State{}, shell.LoggedIn{Name: user})
	if m.state.LoggedInUser() {
		m.router = router.New(m.newHome())
	} else {
		m.router = router.New(login.New())
	}
	return m
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.router.Active().Init(), m.loadLeaderboard())
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.state.Notice != "" {
			return m.dispatch(shell.NoticeDismissed{})
		}
		if m.state.Loading {
			return m, nil
		}
		if msg.String() == "esc" && !handlesBack(m.router.Active()) {
			return m.back()
		}

	case quizscreen.FinishedMsg:
		return m, m.recordResult(msg.Result)

	case shell.Action:
		return m.dispatch(msg)
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func handlesBack(s screen.Screen) bool {
	bh, ok := s.(screen.BackHandler)
	return ok && bh.HandlesBack()
}

// back pops the active screen. Landing on the root screen returns the
// shell to the home view.
func (m AppModel) back() (tea.Model, tea.Cmd) {
	if m.router.Depth() <= 1 {
		return m, nil
	}
	m.router.Pop()
	if m.router.Depth() == 1 && m.state.LoggedInUser() {
		m.state = shell.Reduce(m.state, shell.Navigated{View: shell.ViewHome})
	}
	return m, nil
}

// dispatch reduces a and then runs its side effects.
func (m AppModel) dispatch(a shell.Action) (tea.Model, tea.Cmd) {
	prev := m.state
	m.state = shell.Reduce(m.state, a)

	switch a := a.(type) {
	case shell.LoggedIn:
		if !m.state.LoggedInUser() {
			return m, nil
		}
		if err := m.deps.Profile.Save(m.ctx, m.state.UserName); err != nil {
			m.logger.Warn("save profile failed", zap.Error(err))
		}
		return m, m.router.Reset(m.newHome())

	case shell.LoggedOut:
		if err := m.deps.Profile.Clear(m.ctx); err != nil {
			m.logger.Warn("clear profile failed", zap.Error(err))
		}
		return m, m.router.Reset(login.New())

	case shell.Navigated:
		switch a.View {
		case shell.ViewHome:
			return m, m.router.Reset(m.newHome())
		case shell.ViewLeaderboard:
			return m, tea.Batch(
				m.router.Push(board.New(m.state.Leaderboard, m.state.UserName, m.deps.DataDir)),
				m.loadLeaderboard(),
			)
		}

	case shell.QuizRequested:
		if prev.Loading {
			return m, nil
		}
		if m.deps.Gateway == nil {
			m.state = prev
			return m, m.router.Push(unavailable.New("Làm đề"))
		}
		return m, m.generateQuiz(m.state.Topic)

	case shell.QuizReady:
		runner, err := quiz.NewRunner(a.Questions)
		if err != nil {
			m.state = prev
			return m.dispatch(shell.QuizFailed{Err: err})
		}
		qs := quizscreen.New(runner, m.state.Topic)
		if prev.View == shell.ViewAnalysis {
			return m, m.router.Replace(qs)
		}
		return m, m.router.Push(qs)

	case shell.QuizFailed:
		m.logger.Warn("quiz generation failed", zap.String("topic", m.state.Topic), zap.Error(a.Err))

	case shell.QuizFinished:
		return m, tea.Batch(
			m.router.Replace(analysis.New(a.Result, m.state.Topic)),
			m.analyze(m.state.Questions, a.Result.Answers),
		)

	case shell.AnalysisReady, shell.LeaderboardLoaded:
		return m, m.router.Update(a)
	}
	return m, nil
}

// newHome builds the home screen from the current state.
func (m AppModel) newHome() screen.Screen {
	ctx, deps, user := m.ctx, m.deps, m.state.UserName
	openSummary := func(topic string) screen.Screen {
		return summary.New(ctx, deps.Gateway, topic)
	}
	return home.New(user, m.state.Leaderboard, deps.Gateway != nil, home.Routes{
		Topics: func(summaryMode bool) screen.Screen {
			return topiclist.New(summaryMode, openSummary)
		},
		Chat: func() screen.Screen {
			return tutor.New(ctx, deps.Gateway)
		},
		History: func() screen.Screen {
			return history.New(ctx, deps.Events, user)
		},
		Unavailable: func(title string) screen.Screen {
			return unavailable.New(title)
		},
	})
}

func (m AppModel) loadLeaderboard() tea.Cmd {
	ctx, b, logger := m.ctx, m.deps.Board, m.logger
	return func() tea.Msg {
		entries, err := b.Load(ctx)
		if err != nil {
			logger.Warn("load leaderboard failed", zap.Error(err))
			return nil
		}
		return shell.LeaderboardLoaded{Entries: entries}
	}
}

func (m AppModel) generateQuiz(topic string) tea.Cmd {
	ctx, gw := m.ctx, m.deps.Gateway
	return func() tea.Msg {
		qs, err := gw.GenerateQuiz(ctx, topic)
		if err != nil {
			return shell.QuizFailed{Err: err}
		}
		return shell.QuizReady{Questions: qs}
	}
}

// recordResult stores res on the leaderboard and in the event log, then
// reports the quiz as finished with the updated board.
func (m AppModel) recordResult(res quiz.Result) tea.Cmd {
	ctx, deps, logger := m.ctx, m.deps, m.logger
	user, topic, current := m.state.UserName, m.state.Topic, m.state.Leaderboard
	return func() tea.Msg {
		entries, err := deps.Board.Record(ctx, leaderboard.Entry{Name: user, Score: res.Score, Date: res.Date})
		if err != nil {
			logger.Warn("record leaderboard failed", zap.Error(err))
			entries = current
		}
		if deps.Events != nil {
			if err := deps.Events.AppendQuizResult(ctx, store.NewQuizResultEvent(user, topic, res)); err != nil {
				logger.Warn("record quiz result failed", zap.Error(err))
			}
		}
		return shell.QuizFinished{Result: res, Leaderboard: entries}
	}
}

func (m AppModel) analyze(questions []quiz.Question, answers []quiz.AnswerRecord) tea.Cmd {
	ctx, gw := m.ctx, m.deps.Gateway
	return func() tea.Msg {
		if gw == nil {
			return shell.AnalysisReady{Analysis: gateway.FallbackAnalysis()}
		}
		a, err := gw.AnalyzeResults(ctx, questions, answers)
		if err != nil {
			a = gateway.FallbackAnalysis()
		}
		return shell.AnalysisReady{Analysis: a}
	}
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	header := layout.RenderHeader(active.Title(), m.state.UserName, m.bestScore(), m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)

	var content string
	switch {
	case m.state.Notice != "":
		content = layout.RenderDialog(m.state.Notice, "Nhấn phím bất kỳ để tiếp tục", theme.Error, m.width, contentHeight)
	case m.state.Loading && m.state.View != shell.ViewQuiz:
		content = layout.RenderDialog("⏳ "+m.state.LoadingMessage, "", theme.Primary, m.width, contentHeight)
	default:
		content = m.router.View(m.width, contentHeight)
	}

	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if m.state.Notice != "" || m.state.Loading {
		return []layout.KeyHint{{Key: "Ctrl+C", Description: "Thoát"}}
	}
	if hp, ok := active.(screen.KeyHintProvider); ok {
		return hp.KeyHints()
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Quay lại"},
			{Key: "Ctrl+C", Description: "Thoát"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Chọn"},
		{Key: "Enter", Description: "Mở"},
		{Key: "Ctrl+C", Description: "Thoát"},
	}
}

// bestScore is the logged-in user's best score on the board.
func (m AppModel) bestScore() int {
	best := 0
	for _, e := range m.state.Leaderboard {
		if e.Name == m.state.UserName {
			best = max(best, e.Score)
		}
	}
	return best
}

// Run starts the Bubble Tea program, resuming the saved user if any.
func Run(ctx context.Context, deps Deps) error {
	user, err := deps.Profile.Load(ctx)
	if err != nil {
		return err
	}
	p := tea.NewProgram(newAppModel(ctx, deps, user))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
