// Package gateway turns chemistry tutoring tasks into LLM requests and
// validates what comes back.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/chemmaster/chemmaster/internal/llm"
	"github.com/chemmaster/chemmaster/internal/quiz"
)

// Gateway is the single entry point to the generation service.
type Gateway struct {
	provider llm.Provider
	config   Config
	logger   *zap.Logger

	mu       sync.Mutex
	inFlight map[Op]bool
}

// New creates a Gateway. A nil logger discards logs.
func New(provider llm.Provider, cfg Config, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{
		provider: provider,
		config:   cfg,
		logger:   logger.Named("gateway"),
		inFlight: make(map[Op]bool),
	}
}

// Busy reports whether a call of kind op is running.
func (g *Gateway) Busy(op Op) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inFlight[op]
}

func (g *Gateway) acquire(op Op) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.inFlight[op] {
		return false
	}
	g.inFlight[op] = true
	return true
}

func (g *Gateway) release(op Op) {
	g.mu.Lock()
	delete(g.inFlight, op)
	g.mu.Unlock()
}

// call sends req under the in-flight token for op and returns the raw
// text of the reply.
func (g *Gateway) call(ctx context.Context, op Op, req llm.Request) (string, error) {
	if !g.acquire(op) {
		return "", ErrInFlight
	}
	defer g.release(op)

	if g.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.Timeout)
		defer cancel()
	}
	ctx = llm.WithPurpose(ctx, string(op))

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// GenerateQuiz asks for a 20-question quiz. An empty topic mixes the
// default topics.
func (g *Gateway) GenerateQuiz(ctx context.Context, topic string) ([]quiz.Question, error) {
	topic = strings.TrimSpace(topic)
	req := llm.Request{
		System:    quizSystemPrompt,
		Messages:  []llm.Message{{Role: llm.RoleUser, Content: buildQuizPrompt(topic)}},
		Schema:    QuizSchema,
		Model:     g.config.QuizModel,
		MaxTokens: g.config.QuizMaxTokens,
	}

	raw, err := g.call(ctx, OpGenerateQuiz, req)
	if err != nil {
		if errors.Is(err, ErrInFlight) {
			return nil, err
		}
		return nil, &Error{Op: OpGenerateQuiz, Err: err}
	}

	var out struct {
		Questions []quiz.Question `json:"questions"`
	}
	if err := llm.Decode(QuizSchema, wrapQuestionArray(raw), &out); err != nil {
		return nil, &Error{Op: OpGenerateQuiz, Err: err}
	}

	qs, err := normalizeQuestions(out.Questions)
	if err != nil {
		return nil, &Error{Op: OpGenerateQuiz, Err: &llm.ErrInvalidResponse{Content: json.RawMessage(raw), Err: err}}
	}
	g.checkShape(topic, qs)
	return qs, nil
}

// checkShape logs, without rejecting, a quiz whose length or difficulty
// split differs from what was asked for.
func (g *Gateway) checkShape(topic string, qs []quiz.Question) {
	dist := quiz.Distribution(qs)
	if len(qs) == QuizLength && dist[quiz.Easy] == EasyCount && dist[quiz.Medium] == MediumCount && dist[quiz.Hard] == HardCount {
		return
	}
	g.logger.Warn("quiz shape differs from request",
		zap.String("topic", topic),
		zap.Int("questions", len(qs)),
		zap.Int("easy", dist[quiz.Easy]),
		zap.Int("medium", dist[quiz.Medium]),
		zap.Int("hard", dist[quiz.Hard]))
}

// AnalyzeResults asks the model to assess a finished quiz. It never fails
// on model errors: the fixed fallback analysis is returned instead. The
// only error is ErrInFlight.
func (g *Gateway) AnalyzeResults(ctx context.Context, questions []quiz.Question, answers []quiz.AnswerRecord) (Analysis, error) {
	items := make([]resultItem, 0, len(answers))
	for i, a := range answers {
		if i >= len(questions) {
			break
		}
		items = append(items, resultItem{
			Topic:      questions[i].Topic,
			Difficulty: string(questions[i].Difficulty),
			IsCorrect:  a.IsCorrect,
		})
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return FallbackAnalysis(), nil
	}

	req := llm.Request{
		Messages:       []llm.Message{{Role: llm.RoleUser, Content: buildAnalysisPrompt(string(payload))}},
		Schema:         AnalysisSchema,
		Model:          g.config.AnalysisModel,
		ThinkingBudget: g.config.AnalysisThinkingBudget,
	}

	raw, err := g.call(ctx, OpAnalyzeResults, req)
	if errors.Is(err, ErrInFlight) {
		return Analysis{}, err
	}
	if err != nil {
		g.logger.Warn("analysis failed, using fallback", zap.Error(err))
		return FallbackAnalysis(), nil
	}

	var a Analysis
	if err := llm.Decode(AnalysisSchema, json.RawMessage(raw), &a); err != nil {
		g.logger.Warn("analysis response unusable, using fallback", zap.Error(err))
		return FallbackAnalysis(), nil
	}
	return a, nil
}

// GetTopicSummary asks for a short review sheet on topic.
func (g *Gateway) GetTopicSummary(ctx context.Context, topic string) (StudySummary, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return StudySummary{}, ErrEmptyTopic
	}

	req := llm.Request{
		Messages: []llm.Message{{Role: llm.RoleUser, Content: buildSummaryPrompt(topic)}},
		Schema:   SummarySchema,
		Model:    g.config.SummaryModel,
	}

	raw, err := g.call(ctx, OpTopicSummary, req)
	if errors.Is(err, ErrInFlight) {
		return StudySummary{}, err
	}
	if err != nil {
		return StudySummary{}, &Error{Op: OpTopicSummary, Err: err}
	}

	var s StudySummary
	if err := llm.Decode(SummarySchema, json.RawMessage(raw), &s); err != nil {
		return StudySummary{}, &Error{Op: OpTopicSummary, Err: err}
	}
	if s.Topic == "" {
		s.Topic = topic
	}
	return s, nil
}

// AskAgent sends message to the tutor persona with the prior turns as
// context and returns the plain-text reply.
func (g *Gateway) AskAgent(ctx context.Context, history []Turn, message string) (string, error) {
	msgs := make([]llm.Message, 0, len(history)+1)
	for _, t := range history {
		role := llm.RoleUser
		if t.Role == RoleModel {
			role = llm.RoleAssistant
		}
		msgs = append(msgs, llm.Message{Role: role, Content: t.Text})
	}
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: message})

	req := llm.Request{
		System:   TutorPersona,
		Messages: msgs,
		Model:    g.config.ChatModel,
	}

	raw, err := g.call(ctx, OpAskAgent, req)
	if errors.Is(err, ErrInFlight) {
		return "", err
	}
	if err != nil {
		return "", &Error{Op: OpAskAgent, Err: err}
	}

	reply := strings.TrimSpace(raw)
	if reply == "" {
		return "", &Error{Op: OpAskAgent, Err: &llm.ErrInvalidResponse{Err: errEmptyReply}}
	}
	return reply, nil
}
