package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/chemmaster/chemmaster/internal/chat"
	"github.com/chemmaster/chemmaster/internal/gateway"
	"github.com/chemmaster/chemmaster/internal/leaderboard"
	"github.com/chemmaster/chemmaster/internal/quiz"
	"github.com/chemmaster/chemmaster/internal/store"
	"github.com/chemmaster/chemmaster/internal/topics"
)

const msgUnavailable = "AI chưa được cấu hình"

func errorJSON(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// gatewayStatus maps a gateway error to an HTTP status.
func gatewayStatus(err error) int {
	switch {
	case errors.Is(err, gateway.ErrInFlight):
		return http.StatusConflict
	case errors.Is(err, gateway.ErrEmptyTopic):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

// requireGateway answers 503 when AI is not configured.
func (s *Server) requireGateway(c *gin.Context) bool {
	if s.opts.Gateway == nil {
		errorJSON(c, http.StatusServiceUnavailable, msgUnavailable)
		return false
	}
	return true
}

func (s *Server) listTopics(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"cards": topics.Cards, "defaults": topics.Defaults})
}

type quizRequest struct {
	Topic string `json:"topic"`
}

func (s *Server) createQuiz(c *gin.Context) {
	if !s.requireGateway(c) {
		return
	}
	var req quizRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	qs, err := s.opts.Gateway.GenerateQuiz(c.Request.Context(), req.Topic)
	if err != nil {
		s.logger.Warn("generate quiz failed", zap.Error(err))
		errorJSON(c, gatewayStatus(err), err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": qs})
}

type analysisRequest struct {
	Questions []quiz.Question     `json:"questions" binding:"required"`
	Answers   []quiz.AnswerRecord `json:"answers"`
}

func (s *Server) createAnalysis(c *gin.Context) {
	var req analysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}
	if s.opts.Gateway == nil {
		c.JSON(http.StatusOK, gateway.FallbackAnalysis())
		return
	}

	a, err := s.opts.Gateway.AnalyzeResults(c.Request.Context(), req.Questions, req.Answers)
	if err != nil {
		errorJSON(c, gatewayStatus(err), err.Error())
		return
	}
	c.JSON(http.StatusOK, a)
}

func (s *Server) getSummary(c *gin.Context) {
	topic := strings.TrimSpace(c.Query("topic"))
	if topic == "" {
		errorJSON(c, http.StatusBadRequest, gateway.ErrEmptyTopic.Error())
		return
	}
	if !s.requireGateway(c) {
		return
	}

	sum, err := s.opts.Gateway.GetTopicSummary(c.Request.Context(), topic)
	if err != nil {
		errorJSON(c, gatewayStatus(err), err.Error())
		return
	}
	c.JSON(http.StatusOK, sum)
}

type chatRequest struct {
	History []gateway.Turn `json:"history"`
	Message string         `json:"message"`
}

func (s *Server) chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}
	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		errorJSON(c, http.StatusBadRequest, "message is required")
		return
	}
	if s.opts.Gateway == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": msgUnavailable, "reply": chat.Apology})
		return
	}

	reply, err := s.opts.Gateway.AskAgent(c.Request.Context(), req.History, msg)
	if errors.Is(err, gateway.ErrInFlight) {
		errorJSON(c, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		s.logger.Warn("ask agent failed", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": err.Error(), "reply": chat.Apology})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

func (s *Server) getLeaderboard(c *gin.Context) {
	entries, err := s.opts.Board.Load(c.Request.Context())
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, entries)
}

type leaderboardRequest struct {
	Name  string `json:"name"`
	Score *int   `json:"score" binding:"required"`
}

func (s *Server) postLeaderboard(c *gin.Context) {
	var req leaderboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" || *req.Score < 0 {
		errorJSON(c, http.StatusBadRequest, "name and a non-negative score are required")
		return
	}

	entries, err := s.opts.Board.Record(c.Request.Context(), leaderboard.Entry{
		Name:  name,
		Score: *req.Score,
		Date:  s.opts.Now(),
	})
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (s *Server) leaderboardCSV(c *gin.Context) {
	entries, err := s.opts.Board.Load(c.Request.Context())
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+leaderboard.FileName(s.opts.Now())+`"`)
	c.Status(http.StatusOK)
	if err := leaderboard.WriteCSV(c.Writer, entries); err != nil {
		s.logger.Warn("write csv failed", zap.Error(err))
	}
}

// recordResult saves a finished session to the leaderboard and the event
// log. Failures are logged; the quiz result itself stands.
func (s *Server) recordResult(ctx context.Context, sess *session, res *quiz.Result) {
	board, err := s.opts.Board.Record(ctx, leaderboard.Entry{Name: sess.name, Score: res.Score, Date: res.Date})
	if err != nil {
		s.logger.Warn("record leaderboard failed", zap.String("session", sess.id), zap.Error(err))
	} else {
		sess.board = board
	}

	if s.opts.Events == nil {
		return
	}
	err = s.opts.Events.AppendQuizResult(ctx, store.NewQuizResultEvent(sess.name, sess.topic, *res))
	if err != nil {
		s.logger.Warn("record quiz result failed", zap.String("session", sess.id), zap.Error(err))
	}
}
