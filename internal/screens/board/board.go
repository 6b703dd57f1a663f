package board

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/chemmaster/chemmaster/internal/leaderboard"
	"github.com/chemmaster/chemmaster/internal/screen"
	"github.com/chemmaster/chemmaster/internal/shell"
	"github.com/chemmaster/chemmaster/internal/ui/components"
	"github.com/chemmaster/chemmaster/internal/ui/layout"
	"github.com/chemmaster/chemmaster/internal/ui/theme"
)

type exportedMsg struct {
	Path string
	Err  error
}

// BoardScreen shows the top scores and exports them as CSV.
type BoardScreen struct {
	entries   []leaderboard.Entry
	user      string
	exportDir string
	now       func() time.Time
	status    string
	statusErr bool
}

var _ screen.Screen = (*BoardScreen)(nil)
var _ screen.KeyHintProvider = (*BoardScreen)(nil)

// New creates a BoardScreen. Rows belonging to user are highlighted and
// exports are written into exportDir.
func New(entries []leaderboard.Entry, user, exportDir string) *BoardScreen {
	return &BoardScreen{
		entries:   entries,
		user:      user,
		exportDir: exportDir,
		now:       time.Now,
	}
}

func (s *BoardScreen) Init() tea.Cmd {
	return nil
}

func (s *BoardScreen) Title() string {
	return "Bảng xếp hạng"
}

func (s *BoardScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "E", Description: "Xuất CSV"},
		{Key: "Esc", Description: "Quay lại"},
	}
}

func (s *BoardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case shell.LeaderboardLoaded:
		s.entries = msg.Entries
	case exportedMsg:
		if msg.Err != nil {
			s.status = "Xuất tệp thất bại: " + msg.Err.Error()
			s.statusErr = true
		} else {
			s.status = "Đã lưu " + msg.Path
			s.statusErr = false
		}
	case tea.KeyMsg:
		if k := msg.String(); k == "e" || k == "E" {
			return s, s.export()
		}
	}
	return s, nil
}

func (s *BoardScreen) export() tea.Cmd {
	entries := append([]leaderboard.Entry(nil), s.entries...)
	path := filepath.Join(s.exportDir, leaderboard.FileName(s.now()))
	return func() tea.Msg {
		f, err := os.Create(path)
		if err != nil {
			return exportedMsg{Err: err}
		}
		if err := leaderboard.WriteCSV(f, entries); err != nil {
			f.Close()
			return exportedMsg{Err: err}
		}
		if err := f.Close(); err != nil {
			return exportedMsg{Err: err}
		}
		return exportedMsg{Path: path}
	}
}

func (s *BoardScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")

	if len(s.entries) == 0 {
		b.WriteString(components.Center(lipgloss.NewStyle().
			Foreground(theme.TextDim).Italic(true).
			Render("Chưa có ai trên bảng xếp hạng. Hãy là người đầu tiên!"), width))
	} else {
		for i, e := range s.entries {
			line := fmt.Sprintf("%s  %-20s  %4d  %s",
				rankBadge(i+1), e.Name, e.Score, e.Date.Local().Format("02/01/2006"))
			style := lipgloss.NewStyle().Foreground(theme.Text)
			switch {
			case e.Name == s.user:
				style = style.Foreground(theme.Highlight).Bold(true)
			case i < 3:
				style = style.Foreground(theme.Accent)
			}
			b.WriteString(components.Center(style.Render(line), width))
			b.WriteString("\n")
		}
	}

	if s.status != "" {
		color := theme.Success
		if s.statusErr {
			color = theme.Error
		}
		b.WriteString("\n")
		b.WriteString(components.Center(lipgloss.NewStyle().Foreground(color).Render(s.status), width))
	}
	return b.String()
}

func rankBadge(rank int) string {
	switch rank {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	}
	return fmt.Sprintf("%2d", rank)
}
