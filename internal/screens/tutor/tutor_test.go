package tutor

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/chemmaster/chemmaster/internal/chat"
	"github.com/chemmaster/chemmaster/internal/gateway"
	"github.com/chemmaster/chemmaster/internal/shell"
)

type stubAsker struct {
	reply   string
	err     error
	history []gateway.Turn
}

func (a *stubAsker) AskAgent(_ context.Context, history []gateway.Turn, _ string) (string, error) {
	a.history = history
	return a.reply, a.err
}

func typeText(s *TutorScreen, text string) {
	for _, r := range text {
		s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func TestSendAppendsReply(t *testing.T) {
	asker := &stubAsker{reply: "Liên kết ion hình thành do lực hút tĩnh điện."}
	s := New(context.Background(), asker)
	typeText(s, "Liên kết ion là gì?")

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a send command")
	}
	if !s.waiting || !s.input.Disabled() {
		t.Fatal("input should be disabled while waiting")
	}
	if !strings.Contains(s.View(100, 30), "Gia sư đang trả lời") {
		t.Error("expected waiting indicator")
	}

	// A second Enter while waiting does nothing.
	if _, again := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter}); again != nil {
		t.Error("Enter while waiting should not send")
	}

	s.Update(cmd())
	if s.waiting || s.input.Disabled() {
		t.Error("input should be enabled after the reply")
	}

	msgs := s.transcript.Messages()
	if len(msgs) != 3 {
		t.Fatalf("transcript has %d messages, want 3", len(msgs))
	}
	if msgs[2].Text != asker.reply {
		t.Errorf("reply = %q", msgs[2].Text)
	}
	if len(asker.history) != 1 || asker.history[0].Text != chat.Greeting {
		t.Errorf("history = %+v, want only the greeting", asker.history)
	}
}

func TestSendFailureAppendsApology(t *testing.T) {
	s := New(context.Background(), &stubAsker{err: errors.New("boom")})
	typeText(s, "Hỏi")
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	s.Update(cmd())

	msgs := s.transcript.Messages()
	if got := msgs[len(msgs)-1].Text; got != chat.Apology {
		t.Errorf("last message = %q, want apology", got)
	}
}

func TestSendInFlightShowsBusy(t *testing.T) {
	s := New(context.Background(), &stubAsker{err: gateway.ErrInFlight})
	typeText(s, "Hỏi")
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	s.Update(cmd())

	if len(s.transcript.Messages()) != 1 {
		t.Error("in-flight call should leave the transcript unchanged")
	}
	if s.status != shell.MsgBusy {
		t.Errorf("status = %q, want busy message", s.status)
	}
}

func TestBlankInputNotSent(t *testing.T) {
	s := New(context.Background(), &stubAsker{})
	typeText(s, "   ")
	if _, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter}); cmd != nil {
		t.Error("blank input should not be sent")
	}
}

func TestViewShowsGreeting(t *testing.T) {
	s := New(context.Background(), &stubAsker{})
	if !strings.Contains(s.View(120, 30), "Bạn có câu hỏi nào") {
		t.Error("view should show the greeting")
	}
}
