// Package api provides the HTTP server and handlers for MoodPipe.
//
// It exposes the conversation endpoints (sessions, messages, emotion log, sensed emotions), the
// individual cascades (classify, translate, respond), credential and offline-mode control, and
// Prometheus metrics.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/BTreeMap/MoodPipe/internal/conversation"
	"github.com/BTreeMap/MoodPipe/internal/credential"
	"github.com/BTreeMap/MoodPipe/internal/models"
)

// DefaultAddr is the default listen address.
const DefaultAddr = ":8080"

// DefaultShutdownTimeout bounds graceful shutdown.
const DefaultShutdownTimeout = 10 * time.Second

// Credentials is the credential validator as seen by the API.
type Credentials interface {
	IsValid(ctx context.Context) bool
	State() credential.State
	Update(ctx context.Context, apiKey string) bool
}

// OfflineController is the offline-mode governor as seen by the API.
type OfflineController interface {
	Offline() bool
	Set(offline bool, l models.Language) models.Advisory
	TakeAdvisory(l models.Language) *models.Advisory
}

// Deps are the components the server routes requests to.
type Deps struct {
	Sessions    *conversation.Manager
	Classifier  conversation.Classifier
	Translator  conversation.Translator
	Responder   conversation.Responder
	Credentials Credentials
	Governor    OfflineController
	// Metrics serves GET /metrics; nil disables the endpoint.
	Metrics http.Handler
}

// Opts holds server configuration.
type Opts struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// Option configures Opts.
type Option func(*Opts)

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(o *Opts) {
		o.Addr = addr
	}
}

// WithShutdownTimeout sets how long Run waits for in-flight requests on shutdown.
func WithShutdownTimeout(d time.Duration) Option {
	return func(o *Opts) {
		o.ShutdownTimeout = d
	}
}

// Server is the MoodPipe HTTP API.
type Server struct {
	Deps
	opts    Opts
	handler http.Handler
}

// NewServer creates a Server over deps.
func NewServer(deps Deps, opts ...Option) *Server {
	cfg := Opts{Addr: DefaultAddr, ShutdownTimeout: DefaultShutdownTimeout}
	for _, opt := range opts {
		opt(&cfg)
	}
	s := &Server{Deps: deps, opts: cfg}
	s.handler = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.healthHandler)

	mux.HandleFunc("POST /sessions", s.createSessionHandler)
	mux.HandleFunc("POST /sessions/{id}/messages", s.messageHandler)
	mux.HandleFunc("GET /sessions/{id}/messages", s.historyHandler)
	mux.HandleFunc("GET /sessions/{id}/emotions", s.emotionsHandler)
	mux.HandleFunc("POST /sessions/{id}/sensed", s.sensedHandler)

	mux.HandleFunc("POST /classify", s.classifyHandler)
	mux.HandleFunc("POST /translate", s.translateHandler)
	mux.HandleFunc("POST /respond", s.respondHandler)

	mux.HandleFunc("GET /credential", s.getCredentialHandler)
	mux.HandleFunc("PUT /credential", s.updateCredentialHandler)
	mux.HandleFunc("GET /offline", s.getOfflineHandler)
	mux.HandleFunc("PUT /offline", s.updateOfflineHandler)
	mux.HandleFunc("GET /phrases/{emotion}", s.phraseHandler)

	if s.Metrics != nil {
		mux.Handle("GET /metrics", s.Metrics)
	}
	return mux
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server.Run: MoodPipe API listening", "addr", s.opts.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("Server.Run: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server.Run: graceful shutdown failed", "error", err)
		return err
	}
	<-errCh
	return nil
}

func (s *Server) offline() bool {
	return s.Governor != nil && s.Governor.Offline()
}

func (s *Server) advisory(l models.Language) *models.Advisory {
	if s.Governor == nil {
		return nil
	}
	return s.Governor.TakeAdvisory(l)
}
