// Package quiz holds the quiz data model and the timed runner that walks
// a student through one generated quiz.
package quiz

import "time"

// Difficulty is the difficulty label the model attaches to a question.
type Difficulty string

const (
	Easy   Difficulty = "Dễ"
	Medium Difficulty = "Trung bình"
	Hard   Difficulty = "Khó"
)

// Difficulties lists the labels in ascending order.
var Difficulties = []Difficulty{Easy, Medium, Hard}

// Valid reports whether d is one of the three known labels.
func (d Difficulty) Valid() bool {
	switch d {
	case Easy, Medium, Hard:
		return true
	}
	return false
}

// PointsPerCorrect is the score awarded for each correct answer.
const PointsPerCorrect = 5

// Question is one multiple-choice question. It is not modified after
// generation.
type Question struct {
	ID           int        `json:"id"`
	Text         string     `json:"text"`
	Options      []string   `json:"options"`
	CorrectIndex int        `json:"correctIndex"`
	Explanation  string     `json:"explanation"`
	Topic        string     `json:"topic"`
	Difficulty   Difficulty `json:"difficulty"`
}

// AnswerRecord is the student's answer to one question.
type AnswerRecord struct {
	QuestionID int  `json:"questionId"`
	UserAnswer int  `json:"userAnswer"`
	IsCorrect  bool `json:"isCorrect"`
}

// Result is the outcome of a finished quiz.
type Result struct {
	Score          int            `json:"score"`
	TotalQuestions int            `json:"totalQuestions"`
	CorrectAnswers int            `json:"correctAnswers"`
	Answers        []AnswerRecord `json:"answers"`
	Date           time.Time      `json:"date"`
}

// NewResult tallies answers into a Result for a quiz of total questions.
// Unanswered questions count toward total but not toward the score.
func NewResult(answers []AnswerRecord, total int, date time.Time) Result {
	correct := 0
	for _, a := range answers {
		if a.IsCorrect {
			correct++
		}
	}
	return Result{
		Score:          correct * PointsPerCorrect,
		TotalQuestions: total,
		CorrectAnswers: correct,
		Answers:        append([]AnswerRecord(nil), answers...),
		Date:           date,
	}
}
