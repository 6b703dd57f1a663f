package quiz

import (
	"fmt"
	"math"
	"time"
)

// FormatClock renders d as m:ss, rounding down to whole seconds.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// Accuracy returns the percentage of correct answers, rounded.
func Accuracy(r Result) int {
	if r.TotalQuestions == 0 {
		return 0
	}
	return int(math.Round(float64(r.CorrectAnswers) / float64(r.TotalQuestions) * 100))
}

// Distribution counts questions per difficulty.
func Distribution(qs []Question) map[Difficulty]int {
	out := make(map[Difficulty]int, len(Difficulties))
	for _, q := range qs {
		out[q.Difficulty]++
	}
	return out
}
