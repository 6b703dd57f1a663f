package api

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/chemmaster/chemmaster/internal/gateway"
	"github.com/chemmaster/chemmaster/internal/leaderboard"
	"github.com/chemmaster/chemmaster/internal/quiz"
)

// session is one server-side quiz. Its mutex guards every field.
type session struct {
	mu sync.Mutex

	id       string
	name     string
	topic    string
	runner   *quiz.Runner
	lastTick time.Time
	lastSeen time.Time

	board    []leaderboard.Entry
	analysis *gateway.Analysis
}

// catchup applies whole seconds elapsed since the last tick and returns
// the result if the countdown ran out.
func (s *session) catchup(now time.Time) *quiz.Result {
	s.lastSeen = now
	elapsed := now.Sub(s.lastTick)
	if elapsed < time.Second {
		return nil
	}
	whole := elapsed.Truncate(time.Second)
	s.lastTick = s.lastTick.Add(whole)
	return s.runner.Catchup(whole)
}

type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]*session)}
}

func (st *sessionStore) create(name, topic string, runner *quiz.Runner, now time.Time) *session {
	s := &session{
		id:       uuid.NewString(),
		name:     name,
		topic:    topic,
		runner:   runner,
		lastTick: now,
		lastSeen: now,
	}
	st.mu.Lock()
	st.sessions[s.id] = s
	st.mu.Unlock()
	return s
}

func (st *sessionStore) get(id string) (*session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	return s, ok
}

// expire removes sessions not seen since cutoff and returns how many.
func (st *sessionStore) expire(cutoff time.Time) int {
	st.mu.Lock()
	defer st.mu.Unlock()
	n := 0
	for id, s := range st.sessions {
		s.mu.Lock()
		stale := s.lastSeen.Before(cutoff)
		s.mu.Unlock()
		if stale {
			delete(st.sessions, id)
			n++
		}
	}
	return n
}

func (st *sessionStore) len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// publicQuestion is a question without its answer.
type publicQuestion struct {
	ID         int             `json:"id"`
	Text       string          `json:"text"`
	Options    []string        `json:"options"`
	Topic      string          `json:"topic"`
	Difficulty quiz.Difficulty `json:"difficulty"`

	// Set only once the explanation has been revealed.
	CorrectIndex *int   `json:"correctIndex,omitempty"`
	Explanation  string `json:"explanation,omitempty"`
}

type sessionView struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Topic       string              `json:"topic,omitempty"`
	State       string              `json:"state"`
	Index       int                 `json:"index"`
	Total       int                 `json:"total"`
	Remaining   int                 `json:"remainingSeconds"`
	Clock       string              `json:"clock"`
	Question    *publicQuestion     `json:"question,omitempty"`
	Selected    *int                `json:"selected,omitempty"`
	Revealed    bool                `json:"revealed"`
	Result      *quiz.Result        `json:"result,omitempty"`
	Leaderboard []leaderboard.Entry `json:"leaderboard,omitempty"`
	Analysis    *gateway.Analysis   `json:"analysis,omitempty"`
}

// view renders the session. The caller holds s.mu.
func (s *session) view() sessionView {
	r := s.runner
	st := r.State()
	v := sessionView{
		ID:          s.id,
		Name:        s.name,
		Topic:       s.topic,
		State:       st.Phase.String(),
		Index:       st.Index,
		Total:       r.Len(),
		Remaining:   int(r.Remaining() / time.Second),
		Clock:       quiz.FormatClock(r.Remaining()),
		Revealed:    r.Revealed(),
		Result:      r.Result(),
		Leaderboard: s.board,
		Analysis:    s.analysis,
	}
	if !r.Finished() {
		q := r.Current()
		pq := &publicQuestion{
			ID:         q.ID,
			Text:       q.Text,
			Options:    q.Options,
			Topic:      q.Topic,
			Difficulty: q.Difficulty,
		}
		if r.Revealed() {
			idx := q.CorrectIndex
			pq.CorrectIndex = &idx
			pq.Explanation = q.Explanation
		}
		v.Question = pq
		if sel, ok := r.Selected(); ok {
			v.Selected = &sel
		}
	}
	return v
}
