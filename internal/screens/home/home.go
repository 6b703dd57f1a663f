package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/chemmaster/chemmaster/internal/leaderboard"
	"github.com/chemmaster/chemmaster/internal/router"
	"github.com/chemmaster/chemmaster/internal/screen"
	"github.com/chemmaster/chemmaster/internal/shell"
	"github.com/chemmaster/chemmaster/internal/ui/components"
)

// Routes builds the screens the home menu opens.
type Routes struct {
	// Topics opens the topic list. In summary mode Enter opens the study
	// summary instead of starting a quiz.
	Topics      func(summary bool) screen.Screen
	Chat        func() screen.Screen
	History     func() screen.Screen
	Unavailable func(title string) screen.Screen
}

// HomeScreen is the main menu shown after login.
type HomeScreen struct {
	menu    components.Menu
	user    string
	best    int
	rank    int
	aiReady bool
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a HomeScreen for user. AI menu items open the unavailable
// screen when aiReady is false.
func New(user string, board []leaderboard.Entry, aiReady bool, routes Routes) *HomeScreen {
	h := &HomeScreen{user: user, aiReady: aiReady}
	h.best, h.rank = standing(board, user)

	push := func(s screen.Screen) tea.Cmd {
		return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
	}
	needsAI := func(title string, open func() tea.Cmd) func() tea.Cmd {
		return func() tea.Cmd {
			if !aiReady {
				return push(routes.Unavailable(title))
			}
			return open()
		}
	}

	items := []components.MenuItem{
		{Label: "ÔN TẬP TỔNG HỢP", Hint: "20 câu trộn các chủ đề", Action: needsAI("Ôn tập tổng hợp", func() tea.Cmd {
			return func() tea.Msg { return shell.QuizRequested{} }
		})},
		{Label: "ÔN THEO CHỦ ĐỀ", Hint: "Chọn một chủ đề để làm đề", Action: needsAI("Ôn theo chủ đề", func() tea.Cmd {
			return push(routes.Topics(false))
		})},
		{Label: "TÓM TẮT KIẾN THỨC", Hint: "Tổng quan, ý chính và ví dụ", Action: needsAI("Tóm tắt kiến thức", func() tea.Cmd {
			return push(routes.Topics(true))
		})},
		{Label: "HỎI GIA SƯ AI", Hint: "Trò chuyện với gia sư", Action: needsAI("Gia sư AI", func() tea.Cmd {
			return push(routes.Chat())
		})},
		{Label: "BẢNG XẾP HẠNG", Action: func() tea.Cmd {
			return func() tea.Msg { return shell.Navigated{View: shell.ViewLeaderboard} }
		}},
		{Label: "LỊCH SỬ LÀM BÀI", Action: func() tea.Cmd {
			return push(routes.History())
		}},
		{Label: "ĐĂNG XUẤT", Action: func() tea.Cmd {
			return func() tea.Msg { return shell.LoggedOut{} }
		}},
		{Label: "THOÁT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}
	h.menu = components.NewMenu(items)
	return h
}

// standing returns user's best score and best rank on the board. Rank is
// zero when the user is not on it.
func standing(board []leaderboard.Entry, user string) (best, rank int) {
	for i, e := range board {
		if e.Name != user {
			continue
		}
		if rank == 0 {
			rank = i + 1
		}
		best = max(best, e.Score)
	}
	return best, rank
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(shell.LeaderboardLoaded); ok {
		h.best, h.rank = standing(msg.Entries, h.user)
		return h, nil
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; add back header, footer and frame gaps
	termHeight := height + 8
	compact := termHeight < 34 || width < 100

	cw := components.ContentWidth(width)

	sections := []string{renderGreeting(h.user, cw)}
	if !compact {
		sections = append(sections, renderTopicCards(cw))
	}
	sections = append(sections, renderStatsBar(h.best, h.rank, cw))
	if !h.aiReady {
		sections = append(sections, renderLLMBanner(cw))
	}
	sections = append(sections, renderMenu(h.menu, cw))

	return renderCabinetFrame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Trang chủ"
}
