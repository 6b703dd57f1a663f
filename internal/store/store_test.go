package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/chemmaster/chemmaster/internal/quiz"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, table := range []string{tableLLMRequestEvents, tableQuizResultEvents, tableKVEntries, "global_sequence"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Fatalf("table %s: %v", table, err)
		}
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.KV().Set(ctx, "chem_user", "Lan"); err != nil {
		t.Fatalf("set: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	got, err := s.KV().Get(ctx, "chem_user")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "Lan" {
		t.Errorf("value = %q, want Lan", got)
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}

func TestKV_GetSetDelete(t *testing.T) {
	s := openTestStore(t)
	kv := s.KV()
	ctx := context.Background()

	if _, err := kv.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(missing) err = %v, want ErrNotFound", err)
	}

	if err := kv.Set(ctx, "k", "v1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := kv.Set(ctx, "k", "v2"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := kv.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "v2" {
		t.Errorf("value = %q, want v2", got)
	}

	if err := kv.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := kv.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Errorf("after delete err = %v, want ErrNotFound", err)
	}
	if err := kv.Delete(ctx, "k"); err != nil {
		t.Errorf("deleting a missing key: %v", err)
	}
}

func TestLLMEvents_AppendQueryGet(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "gemini", Model: "gemini-3-flash-preview", Purpose: "quiz-gen", InputTokens: 100, OutputTokens: 900, LatencyMs: 1200, Success: true, RequestBody: "[user]\nhi", ResponseBody: "[]"},
		{Provider: "gemini", Model: "gemini-3-pro-preview", Purpose: "analysis", InputTokens: 50, OutputTokens: 200, LatencyMs: 3000, Success: true},
		{Provider: "gemini", Model: "gemini-3-pro-preview", Purpose: "chat", LatencyMs: 10, Success: false, ErrorMessage: "rate limited"},
	}
	for _, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d events, want 3", len(got))
	}
	if got[0].Purpose != "chat" || got[2].Purpose != "quiz-gen" {
		t.Errorf("events not newest first: %s ... %s", got[0].Purpose, got[2].Purpose)
	}
	if got[0].Success {
		t.Error("chat event should be recorded as failed")
	}
	if got[0].Timestamp.IsZero() {
		t.Error("timestamp not parsed")
	}

	limited, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatalf("query limit: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("limit: got %d, want 2", len(limited))
	}

	after, err := repo.QueryLLMEvents(ctx, QueryOpts{After: got[1].Sequence})
	if err != nil {
		t.Fatalf("query after: %v", err)
	}
	if len(after) != 1 || after[0].Purpose != "chat" {
		t.Errorf("after filter returned %+v", after)
	}

	one, err := repo.GetLLMEvent(ctx, got[2].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if one == nil || one.RequestBody != "[user]\nhi" || one.ResponseBody != "[]" {
		t.Errorf("get returned %+v", one)
	}

	missing, err := repo.GetLLMEvent(ctx, 9999)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing event, got %+v", missing)
	}
}

func TestLLMUsageAggregates(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for _, e := range []LLMRequestEventData{
		{Model: "m1", Purpose: "chat", InputTokens: 10, OutputTokens: 20, LatencyMs: 100, Success: true},
		{Model: "m1", Purpose: "chat", InputTokens: 30, OutputTokens: 40, LatencyMs: 300, Success: true},
		{Model: "m2", Purpose: "quiz-gen", InputTokens: 5, OutputTokens: 5, LatencyMs: 50, Success: true},
	} {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("by purpose: %v", err)
	}
	if len(byPurpose) != 2 {
		t.Fatalf("got %d purposes, want 2", len(byPurpose))
	}
	chat := byPurpose[0]
	if chat.Purpose != "chat" || chat.Calls != 2 || chat.InputTokens != 40 || chat.OutputTokens != 60 || chat.AvgLatencyMs != 200 {
		t.Errorf("chat usage = %+v", chat)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("by model: %v", err)
	}
	if len(byModel) != 2 || byModel[0].Model != "m1" || byModel[0].Calls != 2 {
		t.Errorf("model usage = %+v", byModel)
	}
}

func TestQuizResults_AppendAndQuery(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()
	done := time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC)

	err := repo.AppendQuizResult(ctx, QuizResultEventData{
		UserName:       "Lan",
		Topic:          "Bảng tuần hoàn",
		Score:          10,
		TotalQuestions: 3,
		CorrectAnswers: 2,
		Answers: []QuizAnswer{
			{QuestionID: 1, UserAnswer: 0, IsCorrect: true},
			{QuestionID: 2, UserAnswer: 3, IsCorrect: false},
			{QuestionID: 3, UserAnswer: 1, IsCorrect: true},
		},
		CompletedAt: done,
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := repo.AppendQuizResult(ctx, QuizResultEventData{UserName: "Minh", Score: 50, TotalQuestions: 20, CorrectAnswers: 10, TimedOut: true}); err != nil {
		t.Fatalf("append: %v", err)
	}

	all, err := repo.QueryQuizResults(ctx, "", QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(all) != 2 || all[0].UserName != "Minh" {
		t.Fatalf("query all = %+v", all)
	}
	if !all[0].TimedOut {
		t.Error("timed_out flag lost")
	}

	lan, err := repo.QueryQuizResults(ctx, "Lan", QueryOpts{})
	if err != nil {
		t.Fatalf("query Lan: %v", err)
	}
	if len(lan) != 1 {
		t.Fatalf("got %d results for Lan, want 1", len(lan))
	}
	r := lan[0]
	if r.Score != 10 || r.CorrectAnswers != 2 || len(r.Answers) != 3 || r.Answers[1].UserAnswer != 3 {
		t.Errorf("result = %+v", r)
	}
	if !r.CompletedAt.Equal(done) {
		t.Errorf("completed_at = %v, want %v", r.CompletedAt, done)
	}
}

func TestRedisKV(t *testing.T) {
	addr := os.Getenv("CHEMMASTER_TEST_REDIS")
	if addr == "" {
		t.Skip("CHEMMASTER_TEST_REDIS not set")
	}
	ctx := context.Background()

	kv, err := NewRedisKV(ctx, RedisConfig{Addr: addr, Prefix: "chemmaster-test:"})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer kv.Close()

	if err := kv.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := kv.Get(ctx, "k")
	if err != nil || got != "v" {
		t.Fatalf("get = %q, %v", got, err)
	}
	if err := kv.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := kv.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Errorf("after delete err = %v, want ErrNotFound", err)
	}
}

func TestNewQuizResultEvent(t *testing.T) {
	done := time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC)
	res := quiz.NewResult([]quiz.AnswerRecord{
		{QuestionID: 1, UserAnswer: 0, IsCorrect: true},
		{QuestionID: 2, UserAnswer: 2, IsCorrect: false},
	}, 20, done)

	ev := NewQuizResultEvent("Lan", "Bảng tuần hoàn", res)
	if ev.UserName != "Lan" || ev.Topic != "Bảng tuần hoàn" || ev.Score != 5 || ev.CorrectAnswers != 1 {
		t.Errorf("event = %+v", ev)
	}
	if !ev.TimedOut {
		t.Error("2 of 20 answers should count as timed out")
	}
	if len(ev.Answers) != 2 || ev.Answers[1].UserAnswer != 2 || !ev.CompletedAt.Equal(done) {
		t.Errorf("answers = %+v, completed = %v", ev.Answers, ev.CompletedAt)
	}

	full := quiz.NewResult([]quiz.AnswerRecord{{QuestionID: 1, IsCorrect: true}}, 1, done)
	if NewQuizResultEvent("Lan", "", full).TimedOut {
		t.Error("a fully answered quiz did not time out")
	}
}
