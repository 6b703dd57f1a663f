package gateway

import "github.com/chemmaster/chemmaster/internal/llm"

// QuizSchema wraps the question list in an object because tool-based
// structured output requires an object at the top level.
var QuizSchema = &llm.Schema{
	Name:        "chem-quiz",
	Description: "A grade-10 chemistry multiple-choice quiz",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id": map[string]any{
							"type":        "integer",
							"description": "1-based question number",
						},
						"text": map[string]any{
							"type":        "string",
							"description": "The question shown to the student",
						},
						"options": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "Answer options, usually four",
						},
						"correctIndex": map[string]any{
							"type":        "integer",
							"description": "0-based index of the correct option",
						},
						"explanation": map[string]any{
							"type":        "string",
							"description": "Why the correct option is right",
						},
						"topic": map[string]any{
							"type":        "string",
							"description": "The chemistry topic the question covers",
						},
						"difficulty": map[string]any{
							"type":        "string",
							"enum":        []any{"Dễ", "Trung bình", "Khó"},
							"description": "Difficulty label",
						},
					},
					"required":             []any{"id", "text", "options", "correctIndex", "explanation", "topic", "difficulty"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}

// AnalysisSchema is the structure of a quiz analysis.
var AnalysisSchema = &llm.Schema{
	Name:        "chem-analysis",
	Description: "Strengths, weaknesses and a study roadmap for a finished quiz",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"strengths": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"weaknesses": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"roadmap": map[string]any{"type": "string"},
			"advice":  map[string]any{"type": "string"},
		},
		"required":             []any{"strengths", "weaknesses", "roadmap", "advice"},
		"additionalProperties": false,
	},
}

// SummarySchema is the structure of a topic review sheet.
var SummarySchema = &llm.Schema{
	Name:        "chem-summary",
	Description: "A short plain-language summary of one chemistry topic",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"topic":    map[string]any{"type": "string"},
			"overview": map[string]any{"type": "string"},
			"keyPoints": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"example": map[string]any{"type": "string"},
		},
		"required":             []any{"topic", "overview", "keyPoints", "example"},
		"additionalProperties": false,
	},
}
