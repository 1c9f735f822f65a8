package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/hashicorp/go-hclog"

	"components.dev/calc/internal/application/services"
	"components.dev/calc/internal/core/domain"
	"components.dev/calc/internal/core/ports"
)

// ProviderLister reports the linked providers
type ProviderLister interface {
	Providers() []ports.Provider
}

// Server exposes the calculator over HTTP
type Server struct {
	evaluations *services.EvaluationService
	providers   ProviderLister
	logger      hclog.Logger
	upgrader    websocket.Upgrader
}

// NewServer creates the HTTP host
func NewServer(evaluations *services.EvaluationService, providers ProviderLister, logger hclog.Logger) *Server {
	return &Server{
		evaluations: evaluations,
		providers:   providers,
		logger:      logger.Named("http"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// Handler wires the routes into a chi router
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Get("/providers", s.handleProviders)
		r.Get("/eval/{op}", s.handleEvalQuery)
		r.Post("/eval", s.handleEvalBody)
		r.Get("/stream", s.handleStream)
	})

	return r
}

// ListenAndServe runs the host until ctx is done
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", "addr", addr)
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
		s.logger.Info("shutting down server")
		return srv.Shutdown(shutdownCtx)
	}
}

// errorResponse is the body of every non-2xx reply
type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// statusFor maps evaluation failures onto HTTP status codes
func statusFor(err error) int {
	var providerErr *ports.ProviderError
	switch {
	case errors.Is(err, domain.ErrUnknownOp):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNotLinked):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &providerErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
