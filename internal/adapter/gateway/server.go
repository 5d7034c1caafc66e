package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/Chxpz/futmatrix-whop-agents/internal/usecase"
)

// Server is the HTTP gateway exposing the agent router over REST.
type Server struct {
	router    *usecase.Router
	logger    *slog.Logger
	addr      string
	httpSrv   *http.Server
	boundAddr string
	metrics   *Metrics
	startTime time.Time
}

// NewServer creates a gateway server listening on addr once started.
func NewServer(router *usecase.Router, addr string, logger *slog.Logger) *Server {
	return &Server{
		router:    router,
		logger:    logger,
		addr:      addr,
		metrics:   &Metrics{},
		startTime: time.Now(),
	}
}

// Start begins serving HTTP. Blocks until the context is cancelled or the
// listener fails.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /agents/{id}/chat", s.withMetrics(s.handleChat))
	mux.HandleFunc("GET /agents", s.withMetrics(s.handleListAgents))
	mux.HandleFunc("GET /agents/{id}/history/{user}", s.withMetrics(s.handleGetHistory))
	mux.HandleFunc("DELETE /agents/{id}/history/{user}", s.withMetrics(s.handleClearHistory))
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /metrics", metricsHandler(s.metrics, s.startTime))

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("gateway listen: %w", err)
	}
	s.boundAddr = listener.Addr().String()

	s.httpSrv = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("gateway started", "addr", s.boundAddr)

	go func() {
		<-ctx.Done()
		s.Stop(context.Background())
	}()

	if err := s.httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("gateway serve: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the gateway server.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.httpSrv.Shutdown(shutdownCtx)
}

// BoundAddr returns the actual address the server bound to. Only valid
// after Start.
func (s *Server) BoundAddr() string { return s.boundAddr }

// withMetrics counts the request and its outcome.
func (s *Server) withMetrics(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.metrics.RequestsTotal.Add(1)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		if rec.status >= 400 {
			s.metrics.RequestErrors.Add(1)
		}
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
