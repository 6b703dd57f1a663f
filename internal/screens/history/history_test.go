package history

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/chemmaster/chemmaster/internal/store"
)

func openRepo(t *testing.T) store.EventRepo {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s.EventRepo()
}

func load(t *testing.T, s *HistoryScreen) {
	t.Helper()
	s.Update(s.Init()())
}

func TestHistoryListsUserResults(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()
	done := time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC)

	for _, r := range []store.QuizResultEventData{
		{UserName: "Lan", Topic: "Bảng tuần hoàn", Score: 15, TotalQuestions: 20, CorrectAnswers: 3, CompletedAt: done,
			Answers: []store.QuizAnswer{{QuestionID: 1, IsCorrect: true}, {QuestionID: 2}}},
		{UserName: "Minh", Score: 100, TotalQuestions: 20, CorrectAnswers: 20, CompletedAt: done},
		{UserName: "Lan", Score: 5, TotalQuestions: 20, CorrectAnswers: 1, TimedOut: true, CompletedAt: done.Add(time.Hour)},
	} {
		if err := repo.AppendQuizResult(ctx, r); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	s := New(ctx, repo, "Lan")
	load(t, s)

	if len(s.results) != 2 {
		t.Fatalf("got %d results, want 2 for Lan", len(s.results))
	}
	view := s.View(140, 30)
	for _, want := range []string{"Tổng hợp", "hết giờ", "Bảng tuần hoàn", "15 điểm", "3/20 câu đúng"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if strings.Contains(view, "100 điểm") {
		t.Error("another user's result leaked into the view")
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !s.expanded[1] {
		t.Fatal("Enter should expand the selected result")
	}
	if !strings.Contains(s.View(140, 30), "1✓") {
		t.Error("expanded result should show answer marks")
	}
}

func TestHistoryEmpty(t *testing.T) {
	s := New(context.Background(), openRepo(t), "Lan")
	if !strings.Contains(s.View(100, 30), "Đang tải") {
		t.Error("expected loading text before load")
	}
	load(t, s)
	if !strings.Contains(s.View(100, 30), "chưa làm bài nào") {
		t.Error("expected empty-history message")
	}
}
