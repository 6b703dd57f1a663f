// Package api serves the ChemMaster domain over JSON HTTP for a browser
// client.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/chemmaster/chemmaster/internal/gateway"
	"github.com/chemmaster/chemmaster/internal/leaderboard"
	"github.com/chemmaster/chemmaster/internal/store"
)

// Options holds the server's dependencies.
type Options struct {
	// Gateway is nil when no LLM provider is configured; AI routes then
	// answer 503.
	Gateway     *gateway.Gateway
	Board       *leaderboard.Store
	Events      store.EventRepo
	Logger      *zap.Logger
	Registry    *prometheus.Registry
	CORSOrigins []string
	SessionTTL  time.Duration

	// Now defaults to time.Now.
	Now func() time.Time
}

// Server is the HTTP API.
type Server struct {
	opts     Options
	logger   *zap.Logger
	sessions *sessionStore
	engine   *gin.Engine
}

// New builds the server and its routes.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 2 * time.Hour
	}

	s := &Server{
		opts:     opts,
		logger:   opts.Logger.Named("api"),
		sessions: newSessionStore(),
	}
	s.engine = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) routes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(accessLog(s.logger))
	r.Use(newHTTPMetrics(s.opts.Registry).middleware())
	r.Use(corsMiddleware(s.opts.CORSOrigins))

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.opts.Registry, promhttp.HandlerOpts{})))

	api := r.Group("/api")
	{
		api.GET("/topics", s.listTopics)
		api.POST("/quizzes", s.createQuiz)
		api.POST("/analyses", s.createAnalysis)
		api.GET("/summary", s.getSummary)
		api.POST("/chat", s.chat)

		api.GET("/leaderboard", s.getLeaderboard)
		api.POST("/leaderboard", s.postLeaderboard)
		api.GET("/leaderboard.csv", s.leaderboardCSV)

		api.POST("/sessions", s.createSession)
		api.GET("/sessions/:id", s.getSession)
		api.POST("/sessions/:id/select", s.selectOption)
		api.POST("/sessions/:id/reveal", s.reveal)
		api.POST("/sessions/:id/advance", s.advance)
		api.POST("/sessions/:id/analysis", s.sessionAnalysis)
	}
	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type"},
		MaxAge:       12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// RunJanitor drops expired quiz sessions every interval until ctx is
// cancelled.
func (s *Server) RunJanitor(ctx context.Context, interval time.Duration) error {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			if n := s.sessions.expire(s.opts.Now().Add(-s.opts.SessionTTL)); n > 0 {
				s.logger.Debug("expired sessions", zap.Int("count", n))
			}
		}
	}
}
