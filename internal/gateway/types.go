package gateway

// Analysis is the model's assessment of a finished quiz.
type Analysis struct {
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
	Roadmap    string   `json:"roadmap"`
	Advice     string   `json:"advice"`

	// Fallback is set when the fixed analysis was substituted.
	Fallback bool `json:"-"`
}

// FallbackAnalysis is returned when the model cannot produce an analysis.
func FallbackAnalysis() Analysis {
	return Analysis{
		Strengths:  []string{"Cố gắng hoàn thành bài tập"},
		Weaknesses: []string{"Chưa xác định rõ lỗ hổng"},
		Roadmap:    "Hãy tiếp tục luyện tập thêm các bài tập cơ bản.",
		Advice:     "Kiên trì là chìa khóa của thành công.",
		Fallback:   true,
	}
}

// StudySummary is a short review sheet for one topic.
type StudySummary struct {
	Topic     string   `json:"topic"`
	Overview  string   `json:"overview"`
	KeyPoints []string `json:"keyPoints"`
	Example   string   `json:"example"`
}

// Role is the speaker of a chat turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Turn is one message of a tutor conversation.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// resultItem is the per-question projection sent for analysis.
type resultItem struct {
	Topic      string `json:"topic"`
	Difficulty string `json:"difficulty"`
	IsCorrect  bool   `json:"isCorrect"`
}
