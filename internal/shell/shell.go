// Package shell holds the application state shared by the front ends and
// the single function that changes it.
package shell

import (
	"fmt"
	"strings"

	"github.com/chemmaster/chemmaster/internal/gateway"
	"github.com/chemmaster/chemmaster/internal/leaderboard"
	"github.com/chemmaster/chemmaster/internal/quiz"
)

// View is the top-level screen.
type View int

const (
	ViewHome View = iota
	ViewQuiz
	ViewAnalysis
	ViewLeaderboard
)

func (v View) String() string {
	switch v {
	case ViewQuiz:
		return "quiz"
	case ViewAnalysis:
		return "analysis"
	case ViewLeaderboard:
		return "leaderboard"
	default:
		return "home"
	}
}

// User-facing status messages.
const (
	MsgBusy        = "Hệ thống đang bận. Vui lòng thử lại sau giây lát."
	MsgGeneralQuiz = "AI đang chuẩn bị đề ôn tập tổng hợp..."
	MsgAnalyzing   = "AI đang nghiên cứu bài làm của bạn..."
)

// TopicQuizMessage is the loading message for a topic quiz.
func TopicQuizMessage(topic string) string {
	return fmt.Sprintf("AI đang biên soạn đề về %s...", topic)
}

// State is the whole application state. The zero value is a logged-out
// user on the home view.
type State struct {
	UserName       string
	View           View
	Topic          string
	Questions      []quiz.Question
	Result         *quiz.Result
	Analysis       *gateway.Analysis
	Leaderboard    []leaderboard.Entry
	Loading        bool
	LoadingMessage string
	Notice         string
}

// LoggedInUser reports whether a user is logged in.
func (s State) LoggedInUser() bool { return s.UserName != "" }

// Action is an event applied to State by Reduce.
type Action interface{ isAction() }

type (
	LoggedIn      struct{ Name string }
	LoggedOut     struct{}
	Navigated     struct{ View View }
	QuizRequested struct{ Topic string }
	QuizReady     struct{ Questions []quiz.Question }
	QuizFailed    struct{ Err error }
	QuizFinished  struct {
		Result      quiz.Result
		Leaderboard []leaderboard.Entry
	}
	AnalysisReady     struct{ Analysis gateway.Analysis }
	LeaderboardLoaded struct{ Entries []leaderboard.Entry }
	NoticeDismissed   struct{}
)

func (LoggedIn) isAction()          {}
func (LoggedOut) isAction()         {}
func (Navigated) isAction()         {}
func (QuizRequested) isAction()     {}
func (QuizReady) isAction()         {}
func (QuizFailed) isAction()        {}
func (QuizFinished) isAction()      {}
func (AnalysisReady) isAction()     {}
func (LeaderboardLoaded) isAction() {}
func (NoticeDismissed) isAction()   {}

// Reduce returns the state after applying a. It has no side effects.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case LoggedIn:
		name := strings.TrimSpace(a.Name)
		if name == "" {
			return s
		}
		s.UserName = name
		s.View = ViewHome

	case LoggedOut:
		s = State{Leaderboard: s.Leaderboard}

	case Navigated:
		s.View = a.View

	case QuizRequested:
		if s.Loading {
			return s
		}
		s.Topic = strings.TrimSpace(a.Topic)
		s.Loading = true
		if s.Topic != "" {
			s.LoadingMessage = TopicQuizMessage(s.Topic)
		} else {
			s.LoadingMessage = MsgGeneralQuiz
		}

	case QuizReady:
		s.Questions = a.Questions
		s.Result = nil
		s.Analysis = nil
		s.View = ViewQuiz
		s.Loading = false
		s.LoadingMessage = ""

	case QuizFailed:
		s.Loading = false
		s.LoadingMessage = ""
		s.Notice = MsgBusy

	case QuizFinished:
		res := a.Result
		s.Result = &res
		s.Leaderboard = a.Leaderboard
		s.Analysis = nil
		s.View = ViewAnalysis
		s.Loading = true
		s.LoadingMessage = MsgAnalyzing

	case AnalysisReady:
		an := a.Analysis
		s.Analysis = &an
		s.Loading = false
		s.LoadingMessage = ""

	case LeaderboardLoaded:
		s.Leaderboard = a.Entries

	case NoticeDismissed:
		s.Notice = ""
	}
	return s
}
