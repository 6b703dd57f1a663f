package gateway

import "time"

// Config selects models and limits per operation. Empty model names use
// the provider's configured model.
type Config struct {
	QuizModel     string
	SummaryModel  string
	AnalysisModel string
	ChatModel     string

	// AnalysisThinkingBudget caps reasoning tokens for AnalyzeResults.
	AnalysisThinkingBudget int

	// QuizMaxTokens bounds the quiz response. Twenty questions with
	// explanations need far more than the provider defaults.
	QuizMaxTokens int

	// Timeout bounds each call. Zero means no deadline.
	Timeout time.Duration
}

// DefaultConfig returns the defaults for the named llm provider. Gemini
// gets the flash model for quizzes and summaries and the pro model for
// analysis and chat; other providers keep their configured model.
func DefaultConfig(provider string) Config {
	cfg := Config{
		AnalysisThinkingBudget: 20000,
		QuizMaxTokens:          16384,
	}
	if provider == "gemini" || provider == "" {
		cfg.QuizModel = "gemini-3-flash"
		cfg.SummaryModel = "gemini-3-flash"
		cfg.AnalysisModel = "gemini-3-pro"
		cfg.ChatModel = "gemini-3-pro"
	}
	return cfg
}
