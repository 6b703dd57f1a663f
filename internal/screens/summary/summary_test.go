package summary

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/chemmaster/chemmaster/internal/gateway"
	"github.com/chemmaster/chemmaster/internal/router"
	"github.com/chemmaster/chemmaster/internal/shell"
)

type stubSource struct {
	summary gateway.StudySummary
	err     error
	topic   string
}

func (s *stubSource) GetTopicSummary(_ context.Context, topic string) (gateway.StudySummary, error) {
	s.topic = topic
	return s.summary, s.err
}

func load(t *testing.T, s *SummaryScreen) {
	t.Helper()
	cmd := s.Init()
	if cmd == nil {
		t.Fatal("expected a load command")
	}
	s.Update(cmd())
}

func TestSummaryLoads(t *testing.T) {
	src := &stubSource{summary: gateway.StudySummary{
		Topic:     "Bảng tuần hoàn",
		Overview:  "Các nguyên tố được xếp theo điện tích hạt nhân tăng dần.",
		KeyPoints: []string{"Chu kì", "Nhóm"},
		Example:   "Na ở chu kì 3, nhóm IA.",
	}}
	s := New(context.Background(), src, "Bảng tuần hoàn")

	if !strings.Contains(s.View(100, 30), "AI đang tóm tắt") {
		t.Error("expected loading line before the summary arrives")
	}
	load(t, s)

	if src.topic != "Bảng tuần hoàn" {
		t.Errorf("requested topic = %q", src.topic)
	}
	view := s.View(100, 40)
	for _, want := range []string{"Tổng quan", "1. Chu kì", "2. Nhóm", "Na ở chu kì 3, nhóm IA."} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestSummaryErrorShown(t *testing.T) {
	s := New(context.Background(), &stubSource{err: errors.New("upstream down")}, "Liên kết hóa học")
	load(t, s)
	if !strings.Contains(s.View(100, 30), "upstream down") {
		t.Error("expected the error message in the view")
	}
}

func TestSummaryInFlightShowsBusy(t *testing.T) {
	s := New(context.Background(), &stubSource{err: gateway.ErrInFlight}, "Liên kết hóa học")
	load(t, s)
	if s.errMsg != shell.MsgBusy {
		t.Errorf("errMsg = %q, want busy message", s.errMsg)
	}
}

func TestSummaryEnterPops(t *testing.T) {
	s := New(context.Background(), &stubSource{}, "x")
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command on Enter")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Errorf("expected PopScreenMsg, got %T", cmd())
	}
}
