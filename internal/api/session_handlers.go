package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/chemmaster/chemmaster/internal/quiz"
)

type createSessionRequest struct {
	Name  string `json:"name"`
	Topic string `json:"topic"`
}

func (s *Server) createSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		errorJSON(c, http.StatusBadRequest, "name is required")
		return
	}
	if !s.requireGateway(c) {
		return
	}

	topic := strings.TrimSpace(req.Topic)
	qs, err := s.opts.Gateway.GenerateQuiz(c.Request.Context(), topic)
	if err != nil {
		s.logger.Warn("generate quiz failed", zap.Error(err))
		errorJSON(c, gatewayStatus(err), err.Error())
		return
	}

	runner, err := quiz.NewRunner(qs, quiz.WithClock(s.opts.Now))
	if err != nil {
		errorJSON(c, http.StatusBadGateway, err.Error())
		return
	}
	sess := s.sessions.create(name, topic, runner, s.opts.Now())

	sess.mu.Lock()
	defer sess.mu.Unlock()
	c.JSON(http.StatusCreated, sess.view())
}

// withSession loads the session named in the path, catches its countdown
// up with the wall clock and runs fn under the session lock.
func (s *Server) withSession(c *gin.Context, fn func(*session) error) {
	sess, ok := s.sessions.get(c.Param("id"))
	if !ok {
		errorJSON(c, http.StatusNotFound, "session not found")
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	ctx := c.Request.Context()
	if res := sess.catchup(s.opts.Now()); res != nil {
		s.recordResult(ctx, sess, res)
	}

	if fn != nil {
		if err := fn(sess); err != nil {
			errorJSON(c, runnerStatus(err), err.Error())
			return
		}
	}
	c.JSON(http.StatusOK, sess.view())
}

var errNotFinished = errors.New("quiz is not finished")

func runnerStatus(err error) int {
	switch {
	case errors.Is(err, quiz.ErrOptionOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, quiz.ErrFinished),
		errors.Is(err, quiz.ErrNoSelection),
		errors.Is(err, quiz.ErrExplanationShown),
		errors.Is(err, errNotFinished):
		return http.StatusConflict
	default:
		return gatewayStatus(err)
	}
}

func (s *Server) getSession(c *gin.Context) {
	s.withSession(c, nil)
}

type selectRequest struct {
	Option *int `json:"option" binding:"required"`
}

func (s *Server) selectOption(c *gin.Context) {
	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}
	s.withSession(c, func(sess *session) error {
		return sess.runner.Select(*req.Option)
	})
}

func (s *Server) reveal(c *gin.Context) {
	s.withSession(c, func(sess *session) error {
		return sess.runner.Reveal()
	})
}

func (s *Server) advance(c *gin.Context) {
	s.withSession(c, func(sess *session) error {
		res, err := sess.runner.Advance()
		if err != nil {
			return err
		}
		if res != nil {
			s.recordResult(c.Request.Context(), sess, res)
		}
		return nil
	})
}

func (s *Server) sessionAnalysis(c *gin.Context) {
	if !s.requireGateway(c) {
		return
	}
	s.withSession(c, func(sess *session) error {
		if !sess.runner.Finished() {
			return errNotFinished
		}
		if sess.analysis != nil {
			return nil
		}
		a, err := s.opts.Gateway.AnalyzeResults(c.Request.Context(), sess.runner.Questions(), sess.runner.Answers())
		if err != nil {
			return err
		}
		sess.analysis = &a
		return nil
	})
}
