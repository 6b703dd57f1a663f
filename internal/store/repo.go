package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by KV lookups and single-record reads that miss.
var ErrNotFound = errors.New("store: not found")

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEventRecord is a stored LLM request event.
type LLMEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates LLM usage for one purpose label.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates LLM usage for one model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// QuizAnswer is one answered question inside a stored quiz result.
type QuizAnswer struct {
	QuestionID int  `json:"questionId"`
	UserAnswer int  `json:"userAnswer"`
	IsCorrect  bool `json:"isCorrect"`
}

// QuizResultEventData captures a completed quiz.
type QuizResultEventData struct {
	UserName       string
	Topic          string
	Score          int
	TotalQuestions int
	CorrectAnswers int
	TimedOut       bool
	Answers        []QuizAnswer
	CompletedAt    time.Time
}

// QuizResultRecord is a stored quiz result.
type QuizResultRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	QuizResultEventData
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns LLM events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEventRecord, error)

	// GetLLMEvent returns a single event by ID, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMEventRecord, error)

	// LLMUsageByPurpose aggregates token usage per purpose label.
	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)

	// LLMUsageByModel aggregates token usage per model.
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)

	// AppendQuizResult records a completed quiz.
	AppendQuizResult(ctx context.Context, data QuizResultEventData) error

	// QueryQuizResults returns completed quizzes, newest first. An empty
	// userName matches every user.
	QueryQuizResults(ctx context.Context, userName string, opts QueryOpts) ([]QuizResultRecord, error)
}

// KV is a string-keyed store of string values. It backs the small
// amount of state that survives between runs: the signed-in user
// name and the serialized leaderboard.
type KV interface {
	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
