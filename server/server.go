package server

import (
	"context"
	"embed"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/xhad/aibench/internal/types"
)

//go:embed static/index.html
var static embed.FS

type Config struct {
	// RefreshInterval is how often the websocket feed checks for new
	// records.
	RefreshInterval time.Duration
	// Chunks answers /api/similar. Without it the endpoint reports the
	// chunk index as unavailable.
	Chunks types.ChunkSearcher
}

// Server exposes stored use cases over HTTP.
type Server struct {
	config  Config
	reader  types.UseCaseReader
	metrics *metrics
	mux     *http.ServeMux
}

func New(reader types.UseCaseReader, config Config) *Server {
	if config.RefreshInterval <= 0 {
		config.RefreshInterval = 10 * time.Second
	}

	registry := prometheus.NewRegistry()
	s := &Server{
		config:  config,
		reader:  reader,
		metrics: newMetrics(registry),
		mux:     http.NewServeMux(),
	}

	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("GET /api/use-cases", s.handleUseCases)
	s.mux.HandleFunc("GET /api/similar", s.handleSimilar)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /ws/use-cases", s.handleFeed)
	s.mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	return s
}

func (s *Server) Handler() http.Handler {
	return s.metrics.instrument(s.mux)
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		slog.Info("shutting down server")
		return srv.Shutdown(shutdownCtx)
	}
}
