package quiz

import (
	"errors"
	"time"
)

// DefaultTimeLimit is the countdown a quiz starts with.
const DefaultTimeLimit = 1200 * time.Second

var (
	ErrNoQuestions      = errors.New("quiz has no questions")
	ErrFinished         = errors.New("quiz is finished")
	ErrNoSelection      = errors.New("no option selected")
	ErrOptionOutOfRange = errors.New("option out of range")
	ErrExplanationShown = errors.New("explanation already shown")
)

// Phase is the runner's coarse state.
type Phase int

const (
	PhaseAnswering Phase = iota
	PhaseFinished
)

func (p Phase) String() string {
	if p == PhaseFinished {
		return "finished"
	}
	return "answering"
}

// State is the runner's position: Answering(Index) or Finished.
type State struct {
	Phase Phase
	Index int
}

// Option configures a Runner.
type Option func(*Runner)

// WithTimeLimit overrides DefaultTimeLimit.
func WithTimeLimit(d time.Duration) Option {
	return func(r *Runner) { r.remaining = d }
}

// WithClock overrides the clock used to date the result.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// Runner steps through a quiz one question at a time against a countdown.
// It is not safe for concurrent use.
type Runner struct {
	questions []Question
	index     int
	selected  int
	hasSel    bool
	revealed  bool
	answers   []AnswerRecord
	remaining time.Duration
	now       func() time.Time
	result    *Result
}

// NewRunner starts a quiz at the first question.
func NewRunner(questions []Question, opts ...Option) (*Runner, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	r := &Runner{
		questions: questions,
		remaining: DefaultTimeLimit,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Select records idx as the choice for the current question. It does not
// advance.
func (r *Runner) Select(idx int) error {
	if r.result != nil {
		return ErrFinished
	}
	if r.revealed {
		return ErrExplanationShown
	}
	if idx < 0 || idx >= len(r.questions[r.index].Options) {
		return ErrOptionOutOfRange
	}
	r.selected = idx
	r.hasSel = true
	return nil
}

// Reveal shows the explanation for the current question. The selection
// is locked until Advance.
func (r *Runner) Reveal() error {
	if r.result != nil {
		return ErrFinished
	}
	if !r.hasSel {
		return ErrNoSelection
	}
	r.revealed = true
	return nil
}

// Advance records the selection and moves on. It returns the Result when
// the last question has been answered.
func (r *Runner) Advance() (*Result, error) {
	if r.result != nil {
		return nil, ErrFinished
	}
	if !r.hasSel {
		return nil, ErrNoSelection
	}

	q := r.questions[r.index]
	r.answers = append(r.answers, AnswerRecord{
		QuestionID: q.ID,
		UserAnswer: r.selected,
		IsCorrect:  r.selected == q.CorrectIndex,
	})
	r.hasSel = false
	r.revealed = false

	if r.index == len(r.questions)-1 {
		return r.finish(), nil
	}
	r.index++
	return nil, nil
}

// Tick takes one second off the countdown. When it runs out the quiz
// finishes with the answers recorded so far; the current question is left
// unanswered. Tick returns the Result on that transition only.
func (r *Runner) Tick() *Result {
	if r.result != nil {
		return nil
	}
	r.remaining -= time.Second
	if r.remaining > 0 {
		return nil
	}
	r.remaining = 0
	return r.finish()
}

// Catchup applies one Tick per whole second in elapsed and returns the
// Result if the countdown ran out.
func (r *Runner) Catchup(elapsed time.Duration) *Result {
	for n := int(elapsed / time.Second); n > 0 && r.result == nil; n-- {
		if res := r.Tick(); res != nil {
			return res
		}
	}
	return nil
}

func (r *Runner) finish() *Result {
	res := NewResult(r.answers, len(r.questions), r.now())
	r.result = &res
	return r.result
}

// State returns the runner's phase and current index.
func (r *Runner) State() State {
	if r.result != nil {
		return State{Phase: PhaseFinished, Index: r.index}
	}
	return State{Phase: PhaseAnswering, Index: r.index}
}

// Finished reports whether the quiz is over.
func (r *Runner) Finished() bool { return r.result != nil }

// Result returns the final result, or nil while answering.
func (r *Runner) Result() *Result { return r.result }

// Current returns the question being answered.
func (r *Runner) Current() Question { return r.questions[r.index] }

// Selected returns the current selection, if any.
func (r *Runner) Selected() (int, bool) { return r.selected, r.hasSel }

// Revealed reports whether the explanation is shown.
func (r *Runner) Revealed() bool { return r.revealed }

// Remaining returns the time left on the countdown.
func (r *Runner) Remaining() time.Duration { return r.remaining }

// Answers returns the answers recorded so far.
func (r *Runner) Answers() []AnswerRecord {
	return append([]AnswerRecord(nil), r.answers...)
}

// Questions returns the quiz questions.
func (r *Runner) Questions() []Question { return r.questions }

// Len returns the number of questions.
func (r *Runner) Len() int { return len(r.questions) }
