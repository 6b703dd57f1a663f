package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/chemmaster/chemmaster/internal/quiz"
)

// NewQuizResultEvent builds the event recorded for userName's finished
// quiz. A result with fewer answers than questions ran out of time.
func NewQuizResultEvent(userName, topic string, res quiz.Result) QuizResultEventData {
	answers := make([]QuizAnswer, len(res.Answers))
	for i, a := range res.Answers {
		answers[i] = QuizAnswer{QuestionID: a.QuestionID, UserAnswer: a.UserAnswer, IsCorrect: a.IsCorrect}
	}
	return QuizResultEventData{
		UserName:       userName,
		Topic:          topic,
		Score:          res.Score,
		TotalQuestions: res.TotalQuestions,
		CorrectAnswers: res.CorrectAnswers,
		TimedOut:       len(res.Answers) < res.TotalQuestions,
		Answers:        answers,
		CompletedAt:    res.Date,
	}
}

var quizResultColumns = []string{
	"id", "sequence", "timestamp", "user_name", "topic", "score",
	"total_questions", "correct_answers", "timed_out", "answers", "completed_at",
}

func (r *eventRepo) AppendQuizResult(ctx context.Context, data QuizResultEventData) error {
	answers, err := json.Marshal(data.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}

	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	completed := data.CompletedAt
	if completed.IsZero() {
		completed = time.Now()
	}

	query, args := builder().Insert(tableQuizResultEvents).
		Columns(quizResultColumns[1:]...).
		Values(
			seqNum,
			formatTime(time.Now()),
			data.UserName,
			data.Topic,
			data.Score,
			data.TotalQuestions,
			data.CorrectAnswers,
			data.TimedOut,
			string(answers),
			formatTime(completed),
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save quiz result event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryQuizResults(ctx context.Context, userName string, opts QueryOpts) ([]QuizResultRecord, error) {
	sel := builder().Select(quizResultColumns...).
		From(entsql.Table(tableQuizResultEvents)).
		OrderBy(entsql.Desc("sequence"))
	if userName != "" {
		sel.Where(entsql.EQ("user_name", userName))
	}
	query, args := applyQueryOpts(sel, opts).Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query quiz results: %w", err)
	}
	defer rows.Close()

	var out []QuizResultRecord
	for rows.Next() {
		var (
			rec       QuizResultRecord
			ts        string
			answers   string
			completed string
		)
		err := rows.Scan(
			&rec.ID,
			&rec.Sequence,
			&ts,
			&rec.UserName,
			&rec.Topic,
			&rec.Score,
			&rec.TotalQuestions,
			&rec.CorrectAnswers,
			&rec.TimedOut,
			&answers,
			&completed,
		)
		if err != nil {
			return nil, fmt.Errorf("scan quiz result: %w", err)
		}
		if err := json.Unmarshal([]byte(answers), &rec.Answers); err != nil {
			return nil, fmt.Errorf("unmarshal answers for quiz result %d: %w", rec.ID, err)
		}
		rec.Timestamp = parseTime(ts)
		rec.CompletedAt = parseTime(completed)
		out = append(out, rec)
	}
	return out, rows.Err()
}
