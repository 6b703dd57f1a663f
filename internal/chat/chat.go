// Package chat keeps the tutor conversation shown to the student.
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/chemmaster/chemmaster/internal/gateway"
)

const (
	Greeting = "Chào bạn! Mình là AI trợ giúp Hóa học 10. Bạn có câu hỏi nào về bài học không?"
	Apology  = "Xin lỗi, mình đang gặp chút trục trặc. Thử lại sau nhé!"
)

// Asker answers a tutor question given the prior turns.
type Asker interface {
	AskAgent(ctx context.Context, history []gateway.Turn, message string) (string, error)
}

// Transcript is a tutor conversation. It is safe for concurrent use.
type Transcript struct {
	mu       sync.Mutex
	messages []gateway.Turn
}

// NewTranscript starts a conversation with the tutor's greeting.
func NewTranscript() *Transcript {
	return &Transcript{messages: []gateway.Turn{{Role: gateway.RoleModel, Text: Greeting}}}
}

// Messages returns a copy of the conversation so far.
func (t *Transcript) Messages() []gateway.Turn {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]gateway.Turn(nil), t.messages...)
}

// Send asks the tutor text and appends both the question and the reply.
// A failed call appends the apology instead of a reply. Blank input and
// ErrInFlight leave the transcript unchanged and return false.
func (t *Transcript) Send(ctx context.Context, asker Asker, text string) (gateway.Turn, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return gateway.Turn{}, false
	}

	history := t.Messages()
	reply, err := asker.AskAgent(ctx, history, text)
	if errors.Is(err, gateway.ErrInFlight) {
		return gateway.Turn{}, false
	}
	if err != nil {
		reply = Apology
	}

	answer := gateway.Turn{Role: gateway.RoleModel, Text: reply}
	t.mu.Lock()
	t.messages = append(t.messages, gateway.Turn{Role: gateway.RoleUser, Text: text}, answer)
	t.mu.Unlock()
	return answer, true
}
