package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/chemmaster/chemmaster/internal/llm"
	"github.com/chemmaster/chemmaster/internal/quiz"
)

var errEmptyReply = errors.New("empty reply")

// wrapQuestionArray accepts a bare question array, as some models return
// one despite the object schema, and wraps it as {"questions": [...]}.
func wrapQuestionArray(raw string) json.RawMessage {
	cleaned := llm.StripCodeFences(raw)
	if strings.HasPrefix(cleaned, "[") {
		return json.RawMessage(`{"questions":` + cleaned + `}`)
	}
	return json.RawMessage(cleaned)
}

// normalizeQuestions rejects questions the runner cannot serve and
// renumbers ids 1..N when they are missing or duplicated.
func normalizeQuestions(qs []quiz.Question) ([]quiz.Question, error) {
	if len(qs) == 0 {
		return nil, errors.New("no questions")
	}

	seen := make(map[int]bool, len(qs))
	renumber := false
	for i, q := range qs {
		switch {
		case strings.TrimSpace(q.Text) == "":
			return nil, fmt.Errorf("question %d: empty text", i+1)
		case len(q.Options) < 2:
			return nil, fmt.Errorf("question %d: %d options, need at least 2", i+1, len(q.Options))
		case q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options):
			return nil, fmt.Errorf("question %d: correctIndex %d out of range", i+1, q.CorrectIndex)
		case !q.Difficulty.Valid():
			return nil, fmt.Errorf("question %d: unknown difficulty %q", i+1, q.Difficulty)
		}
		if q.ID <= 0 || seen[q.ID] {
			renumber = true
		}
		seen[q.ID] = true
	}

	out := append([]quiz.Question(nil), qs...)
	if renumber {
		for i := range out {
			out[i].ID = i + 1
		}
	}
	return out, nil
}
