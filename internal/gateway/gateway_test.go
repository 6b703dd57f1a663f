package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/chemmaster/chemmaster/internal/llm"
	"github.com/chemmaster/chemmaster/internal/quiz"
)

func quizQuestions(easy, medium, hard int) []quiz.Question {
	var qs []quiz.Question
	add := func(n int, d quiz.Difficulty) {
		for range n {
			qs = append(qs, quiz.Question{
				ID:           len(qs) + 1,
				Text:         fmt.Sprintf("Câu %d", len(qs)+1),
				Options:      []string{"A", "B", "C", "D"},
				CorrectIndex: 1,
				Explanation:  "Vì B đúng",
				Topic:        "Bảng tuần hoàn",
				Difficulty:   d,
			})
		}
	}
	add(easy, quiz.Easy)
	add(medium, quiz.Medium)
	add(hard, quiz.Hard)
	return qs
}

func quizJSON(t *testing.T, qs []quiz.Question) string {
	t.Helper()
	b, err := json.Marshal(map[string]any{"questions": qs})
	require.NoError(t, err)
	return string(b)
}

func newGateway(mock *llm.MockProvider, logger *zap.Logger) *Gateway {
	return New(mock, DefaultConfig("gemini"), logger)
}

func TestGenerateQuiz_FencedResponse(t *testing.T) {
	body := "```json\n" + quizJSON(t, quizQuestions(7, 8, 5)) + "\n```"
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(body)})
	g := newGateway(mock, nil)

	qs, err := g.GenerateQuiz(context.Background(), "Bảng tuần hoàn")
	require.NoError(t, err)
	require.Len(t, qs, 20)
	assert.Equal(t, 1, qs[0].ID)
	assert.Equal(t, quiz.Hard, qs[19].Difficulty)

	req := mock.LastRequest()
	assert.Equal(t, "gemini-3-flash", req.Model)
	assert.Same(t, QuizSchema, req.Schema)
	assert.Contains(t, req.Messages[0].Content, "tập trung CHỈ VÀO CHỦ ĐỀ: Bảng tuần hoàn")
	assert.Contains(t, req.Messages[0].Content, "7 câu Dễ, 8 câu Trung bình, 5 câu Khó")
}

func TestGenerateQuiz_DefaultTopics(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(quizJSON(t, quizQuestions(7, 8, 5)))})
	g := newGateway(mock, nil)

	_, err := g.GenerateQuiz(context.Background(), "  ")
	require.NoError(t, err)

	prompt := mock.LastRequest().Messages[0].Content
	assert.Contains(t, prompt, "bao gồm các chủ đề: Cấu tạo nguyên tử, Bảng tuần hoàn")
	assert.Contains(t, prompt, "Năng lượng hóa học")
	assert.NotContains(t, prompt, "CHỈ VÀO")
}

func TestGenerateQuiz_BareArray(t *testing.T) {
	b, err := json.Marshal(quizQuestions(1, 1, 1))
	require.NoError(t, err)
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage("```\n" + string(b) + "\n```")})

	qs, err := newGateway(mock, nil).GenerateQuiz(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, qs, 3)
}

func TestGenerateQuiz_ShapeWarning(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(quizJSON(t, quizQuestions(2, 1, 0)))})

	qs, err := newGateway(mock, zap.New(core)).GenerateQuiz(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, qs, 3)
	assert.Equal(t, 1, logs.FilterMessage("quiz shape differs from request").Len())
}

func TestGenerateQuiz_RenumbersIDs(t *testing.T) {
	qs := quizQuestions(2, 1, 0)
	qs[0].ID, qs[1].ID, qs[2].ID = 4, 4, 0
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(quizJSON(t, qs))})

	got, err := newGateway(mock, nil).GenerateQuiz(context.Background(), "")
	require.NoError(t, err)
	for i, q := range got {
		assert.Equal(t, i+1, q.ID)
	}
}

func TestGenerateQuiz_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func([]quiz.Question) []quiz.Question
	}{
		{"empty list", func([]quiz.Question) []quiz.Question { return []quiz.Question{} }},
		{"one option", func(qs []quiz.Question) []quiz.Question {
			qs[1].Options = []string{"A"}
			qs[1].CorrectIndex = 0
			return qs
		}},
		{"correct index out of range", func(qs []quiz.Question) []quiz.Question { qs[0].CorrectIndex = 4; return qs }},
		{"negative correct index", func(qs []quiz.Question) []quiz.Question { qs[0].CorrectIndex = -1; return qs }},
		{"blank text", func(qs []quiz.Question) []quiz.Question { qs[2].Text = "  "; return qs }},
		{"unknown difficulty", func(qs []quiz.Question) []quiz.Question { qs[2].Difficulty = "Easy"; return qs }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := quizJSON(t, tt.mutate(quizQuestions(1, 1, 1)))
			mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(body)})

			_, err := newGateway(mock, nil).GenerateQuiz(context.Background(), "")
			require.Error(t, err)

			var gwErr *Error
			require.ErrorAs(t, err, &gwErr)
			assert.Equal(t, OpGenerateQuiz, gwErr.Op)
			assert.True(t, llm.IsShapeError(err), "want shape error, got %v", err)
		})
	}
}

func TestGenerateQuiz_NotJSON(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage("Xin lỗi, tôi không thể")})
	_, err := newGateway(mock, nil).GenerateQuiz(context.Background(), "")
	assert.True(t, llm.IsShapeError(err))
}

func TestGenerateQuiz_ServiceError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrRateLimit{Err: errors.New("429")}})

	_, err := newGateway(mock, nil).GenerateQuiz(context.Background(), "")
	var rl *llm.ErrRateLimit
	require.ErrorAs(t, err, &rl)
	var gwErr *Error
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, OpGenerateQuiz, gwErr.Op)
	assert.False(t, llm.IsShapeError(err))
}

func TestAnalyzeResults_Success(t *testing.T) {
	reply := "```json\n" + `{"strengths":["Bảng tuần hoàn"],"weaknesses":["Redox"],"roadmap":"Ôn số oxi hóa","advice":"Cố lên"}` + "\n```"
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(reply)})
	g := newGateway(mock, nil)

	qs := quizQuestions(1, 1, 1)
	qs[2].Topic = "Phản ứng Redox"
	answers := []quiz.AnswerRecord{{QuestionID: 1, UserAnswer: 1, IsCorrect: true}, {QuestionID: 2, UserAnswer: 0}}

	a, err := g.AnalyzeResults(context.Background(), qs, answers)
	require.NoError(t, err)
	assert.False(t, a.Fallback)
	assert.Equal(t, []string{"Bảng tuần hoàn"}, a.Strengths)
	assert.Equal(t, "Cố lên", a.Advice)

	req := mock.LastRequest()
	assert.Equal(t, "gemini-3-pro", req.Model)
	assert.Equal(t, 20000, req.ThinkingBudget)
	assert.Contains(t, req.Messages[0].Content,
		`[{"topic":"Bảng tuần hoàn","difficulty":"Dễ","isCorrect":true},{"topic":"Bảng tuần hoàn","difficulty":"Trung bình","isCorrect":false}]`)
}

func TestAnalyzeResults_Fallback(t *testing.T) {
	tests := []struct {
		name string
		resp llm.MockResponse
	}{
		{"service error", llm.MockResponse{Err: &llm.ErrProviderUnavailable{}}},
		{"not json", llm.MockResponse{Content: json.RawMessage("Phân tích: tốt")}},
		{"missing field", llm.MockResponse{Content: json.RawMessage(`{"strengths":[],"weaknesses":[]}`)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := llm.NewMockProvider(tt.resp)
			a, err := newGateway(mock, nil).AnalyzeResults(context.Background(), quizQuestions(1, 0, 0), nil)
			require.NoError(t, err)
			assert.True(t, a.Fallback)
			assert.Equal(t, FallbackAnalysis(), a)
			assert.Equal(t, "Kiên trì là chìa khóa của thành công.", a.Advice)
		})
	}
}

func TestGetTopicSummary(t *testing.T) {
	reply := `{"topic":"Liên kết hóa học","overview":"Liên kết giữa các nguyên tử","keyPoints":["Ion","Cộng hóa trị"],"example":"NaCl"}`
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(reply)})
	g := newGateway(mock, nil)

	s, err := g.GetTopicSummary(context.Background(), "Liên kết hóa học")
	require.NoError(t, err)
	assert.Equal(t, []string{"Ion", "Cộng hóa trị"}, s.KeyPoints)
	assert.Equal(t, "NaCl", s.Example)
	assert.Equal(t, "gemini-3-flash", mock.LastRequest().Model)

	_, err = g.GetTopicSummary(context.Background(), " ")
	assert.ErrorIs(t, err, ErrEmptyTopic)
	assert.Equal(t, 1, mock.CallCount())
}

func TestGetTopicSummary_Errors(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{}},
		llm.MockResponse{Content: json.RawMessage(`{"topic":"x"}`)},
	)
	g := newGateway(mock, nil)

	_, err := g.GetTopicSummary(context.Background(), "Redox")
	var unavail *llm.ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavail)

	_, err = g.GetTopicSummary(context.Background(), "Redox")
	var gwErr *Error
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, OpTopicSummary, gwErr.Op)
	assert.True(t, llm.IsShapeError(err))
}

func TestAskAgent(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage("  Số oxi hóa của O thường là -2.  ")})
	g := newGateway(mock, nil)

	history := []Turn{
		{Role: RoleModel, Text: "Chào bạn!"},
		{Role: RoleUser, Text: "Redox là gì?"},
		{Role: RoleModel, Text: "Là phản ứng oxi hóa - khử."},
	}
	reply, err := g.AskAgent(context.Background(), history, "Số oxi hóa của O?")
	require.NoError(t, err)
	assert.Equal(t, "Số oxi hóa của O thường là -2.", reply)

	req := mock.LastRequest()
	assert.Equal(t, TutorPersona, req.System)
	assert.Nil(t, req.Schema)
	assert.Equal(t, "gemini-3-pro", req.Model)
	require.Len(t, req.Messages, 4)
	assert.Equal(t, llm.RoleAssistant, req.Messages[0].Role)
	assert.Equal(t, llm.RoleUser, req.Messages[1].Role)
	assert.Equal(t, llm.Message{Role: llm.RoleUser, Content: "Số oxi hóa của O?"}, req.Messages[3])
}

func TestAskAgent_Errors(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage("   ")},
		llm.MockResponse{Err: &llm.ErrRateLimit{}},
	)
	g := newGateway(mock, nil)

	_, err := g.AskAgent(context.Background(), nil, "hi")
	assert.True(t, llm.IsShapeError(err))

	_, err = g.AskAgent(context.Background(), nil, "hi")
	var rl *llm.ErrRateLimit
	assert.ErrorAs(t, err, &rl)
}

func TestInFlightToken(t *testing.T) {
	release := make(chan struct{})
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(quizJSON(t, quizQuestions(7, 8, 5))), Wait: release},
		llm.MockResponse{Content: json.RawMessage("Chào")},
	)
	g := newGateway(mock, nil)

	done := make(chan error, 1)
	go func() {
		_, err := g.GenerateQuiz(context.Background(), "")
		done <- err
	}()
	require.Eventually(t, func() bool { return g.Busy(OpGenerateQuiz) && mock.CallCount() == 1 }, time.Second, time.Millisecond)

	_, err := g.GenerateQuiz(context.Background(), "Redox")
	assert.ErrorIs(t, err, ErrInFlight)
	_, err = g.AnalyzeResults(context.Background(), nil, nil)
	assert.NotErrorIs(t, err, ErrInFlight, "different kinds may overlap")

	close(release)
	require.NoError(t, <-done)
	assert.False(t, g.Busy(OpGenerateQuiz))

	var quizCalls int
	for _, c := range mock.Calls {
		if c.Schema == QuizSchema {
			quizCalls++
		}
	}
	assert.Equal(t, 1, quizCalls, "rejected call must not reach the provider")
}

func TestAnalyzeResults_InFlight(t *testing.T) {
	release := make(chan struct{})
	mock := llm.NewMockProvider(llm.MockResponse{Err: errors.New("late"), Wait: release})
	g := newGateway(mock, nil)

	done := make(chan Analysis, 1)
	go func() {
		a, _ := g.AnalyzeResults(context.Background(), nil, nil)
		done <- a
	}()
	require.Eventually(t, func() bool { return g.Busy(OpAnalyzeResults) && mock.CallCount() == 1 }, time.Second, time.Millisecond)

	_, err := g.AnalyzeResults(context.Background(), nil, nil)
	assert.ErrorIs(t, err, ErrInFlight)

	close(release)
	assert.True(t, (<-done).Fallback)
}

func TestTimeout(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Wait: make(chan struct{})})
	cfg := DefaultConfig("gemini")
	cfg.Timeout = 10 * time.Millisecond
	g := New(mock, cfg, nil)

	_, err := g.AskAgent(context.Background(), nil, "hi")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDefaultConfig(t *testing.T) {
	g := DefaultConfig("gemini")
	assert.Equal(t, "gemini-3-pro", g.AnalysisModel)
	assert.Equal(t, 20000, g.AnalysisThinkingBudget)
	assert.Zero(t, g.Timeout)

	o := DefaultConfig("openai")
	assert.Empty(t, o.QuizModel)
	assert.Empty(t, o.ChatModel)
}

func TestErrorMessage(t *testing.T) {
	err := &Error{Op: OpAskAgent, Err: errors.New("boom")}
	assert.True(t, strings.HasPrefix(err.Error(), "ask-agent"))
}
