// internal/server/server.go
package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"time"

	"promptprofit-audit/internal/audit/questionnaire"
	submitaudit "promptprofit-audit/internal/audit/submit-audit"
	"promptprofit-audit/internal/common/config"
	apperrors "promptprofit-audit/internal/common/errors"
	"promptprofit-audit/internal/common/logger"
	"promptprofit-audit/internal/models"

	"github.com/klauspost/compress/gzhttp"
)

// Submitter runs audits. *submitaudit.Pipeline implements it.
type Submitter interface {
	Submit(ctx context.Context, answers models.Answers) (*submitaudit.Result, error)
	Preview(ctx context.Context, answers models.Answers) (*models.PreviewResponse, error)
}

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Options struct {
	Config    config.ServerConfig
	Catalogue *questionnaire.Catalogue
	Submitter Submitter
	Throttle  Throttle // optional
	Ready     Pinger   // optional
	Static    fs.FS
	Logger    logger.Logger
}

type Server struct {
	opts       Options
	logger     logger.Logger
	errors     *apperrors.ErrorHandler
	limiter    *ipLimiter
	httpServer *http.Server
}

func New(opts Options) (*Server, error) {
	if opts.Submitter == nil {
		return nil, errors.New("server: submitter is required")
	}
	if opts.Catalogue == nil {
		return nil, errors.New("server: catalogue is required")
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNoOpLogger()
	}

	if opts.Config.StaticDir != "" {
		info, err := os.Stat(opts.Config.StaticDir)
		if err != nil || !info.IsDir() {
			return nil, fmt.Errorf("server: static_dir %q is not a directory", opts.Config.StaticDir)
		}
		opts.Static = os.DirFS(opts.Config.StaticDir)
	}
	if opts.Static == nil {
		return nil, errors.New("server: static files are required")
	}

	log := opts.Logger.WithFields(map[string]interface{}{"component": "http"})
	s := &Server{
		opts:   opts,
		logger: log,
		errors: apperrors.NewErrorHandler(log),
	}
	if opts.Config.RateLimit.RPS > 0 {
		s.limiter = newIPLimiter(opts.Config.RateLimit.RPS, opts.Config.RateLimit.Burst, opts.Config.TrustProxyHeaders)
	}

	s.httpServer = &http.Server{
		Addr:              opts.Config.Addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       durationOr(opts.Config.ReadTimeout, 30*time.Second),
		WriteTimeout:      durationOr(opts.Config.WriteTimeout, 150*time.Second),
	}
	return s, nil
}

func durationOr(ms int, fallback time.Duration) time.Duration {
	if ms <= 0 {
		return fallback
	}
	return config.GetDuration(ms)
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/audit/submit", s.handleSubmit)
	mux.HandleFunc("POST /api/audit/score", s.handleScore)
	mux.HandleFunc("GET /api/audit/questions", s.handleQuestions)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReady)
	mux.Handle("GET /", http.FileServerFS(s.opts.Static))

	var h http.Handler = mux
	if s.limiter != nil {
		h = s.rateLimit(h)
	}
	h = gzhttp.GzipHandler(h)
	h = s.logRequests(h)
	h = s.recoverPanics(h)
	return h
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("http server listening", map[string]interface{}{"addr": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down", nil)
	return s.httpServer.Shutdown(ctx)
}
