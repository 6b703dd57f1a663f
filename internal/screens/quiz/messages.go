package quiz

import (
	"time"

	qz "github.com/chemmaster/chemmaster/internal/quiz"
)

// timerTickMsg is sent every second to update the countdown.
type timerTickMsg time.Time

// FinishedMsg is emitted once when the quiz ends, by answering the last
// question or by running out of time.
type FinishedMsg struct {
	Result qz.Result
}
