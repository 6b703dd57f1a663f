package topiclist

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/chemmaster/chemmaster/internal/router"
	"github.com/chemmaster/chemmaster/internal/screen"
	"github.com/chemmaster/chemmaster/internal/shell"
	"github.com/chemmaster/chemmaster/internal/topics"
)

type stubScreen struct{ title string }

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return s.title }
func (s *stubScreen) Title() string                           { return s.title }

func openStub(topic string) screen.Screen { return &stubScreen{title: topic} }

func TestEnterRequestsTopicQuiz(t *testing.T) {
	s := New(false, openStub)
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command on Enter")
	}
	req, ok := cmd().(shell.QuizRequested)
	if !ok {
		t.Fatalf("expected QuizRequested, got %T", cmd())
	}
	if req.Topic != topics.Cards[1].Name {
		t.Errorf("topic = %q, want %q", req.Topic, topics.Cards[1].Name)
	}
}

func TestSummaryKeyPushesSummary(t *testing.T) {
	s := New(false, openStub)
	_, cmd := s.Update(tea.KeyPressMsg{Code: 's', Text: "s"})
	if cmd == nil {
		t.Fatal("expected a command on s")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok || push.Screen.Title() != topics.Cards[0].Name {
		t.Errorf("got %#v, want push of summary for first topic", cmd())
	}
}

func TestSummaryModeEnterOpensSummary(t *testing.T) {
	s := New(true, openStub)
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if _, ok := cmd().(router.PushScreenMsg); !ok {
		t.Errorf("summary mode Enter should push, got %T", cmd())
	}
	if s.Title() != "Tóm tắt kiến thức" {
		t.Errorf("title = %q", s.Title())
	}
}

func TestSelectionStaysInBounds(t *testing.T) {
	s := New(false, openStub)
	s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if s.selected != 0 {
		t.Errorf("selected = %d after up at top, want 0", s.selected)
	}
	for range len(topics.Cards) + 2 {
		s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	if s.selected != len(topics.Cards)-1 {
		t.Errorf("selected = %d, want %d", s.selected, len(topics.Cards)-1)
	}
}
