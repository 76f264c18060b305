// Package httpapi exposes the compiler over HTTP using echo.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/goliatone/go-rivegen/pkg/orchestrator"
	"github.com/goliatone/go-rivegen/pkg/render"
	"github.com/goliatone/go-rivegen/pkg/schema"
)

// DefaultMaxBodyBytes bounds request bodies. Embedded assets travel as
// base64 inside the JSON body, so the limit is generous.
const DefaultMaxBodyBytes int64 = 32 << 20

const shutdownTimeout = 10 * time.Second

// Compiler is the pipeline the server drives. *orchestrator.Orchestrator
// satisfies it.
type Compiler interface {
	Compile(ctx context.Context, req orchestrator.Request) (orchestrator.Result, error)
	Preset(ctx context.Context, s schema.Schema, filename string, req orchestrator.PresetRequest) (orchestrator.Preset, error)
	Templates() []render.Descriptor
	HasTemplate(key string) bool
}

// Option customises the server.
type Option func(*Server)

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMaxBodyBytes overrides DefaultMaxBodyBytes. Values <= 0 are ignored.
func WithMaxBodyBytes(limit int64) Option {
	return func(s *Server) {
		if limit > 0 {
			s.maxBodyBytes = limit
		}
	}
}

// WithRequestIDGenerator replaces the uuid request-id generator.
func WithRequestIDGenerator(fn func() string) Option {
	return func(s *Server) {
		if fn != nil {
			s.newRequestID = fn
		}
	}
}

// Server routes HTTP requests to a Compiler.
type Server struct {
	echo         *echo.Echo
	compiler     Compiler
	logger       *slog.Logger
	maxBodyBytes int64
	newRequestID func() string
}

// New builds the server and registers its routes.
func New(compiler Compiler, options ...Option) (*Server, error) {
	if compiler == nil {
		return nil, errors.New("httpapi: compiler is required")
	}
	s := &Server{
		compiler:     compiler,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxBodyBytes: DefaultMaxBodyBytes,
		newRequestID: uuid.NewString,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = jsonSerializer{}
	e.HTTPErrorHandler = s.handleError

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: s.newRequestID,
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.logger.Info("request",
				"request_id", v.RequestID,
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			)
			return nil
		},
	}))
	e.Use(middleware.BodyLimit(strconv.FormatInt(s.maxBodyBytes, 10)))

	e.GET("/healthz", s.healthz)
	e.GET("/templates", s.listTemplates)
	e.POST("/generate", s.generate)
	e.POST("/preset", s.preset)

	s.echo = e
	return s, nil
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		errCh <- s.echo.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("httpapi: serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("httpapi: shutdown: %w", err)
	}
	s.logger.Info("http server stopped")
	return nil
}
