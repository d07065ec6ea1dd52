package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/cory-johannsen/chatrpg/internal/config"
)

// ShutdownTimeout bounds how long Stop waits for in-flight requests.
const ShutdownTimeout = 5 * time.Second

// HTTPService runs an http.Server as a lifecycle Service.
type HTTPService struct {
	srv    *http.Server
	logger *zap.Logger
}

// NewMetricsService serves the metrics in gatherer at cfg.Path on cfg.Addr().
func NewMetricsService(cfg config.MetricsConfig, gatherer prometheus.Gatherer, logger *zap.Logger) *HTTPService {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return &HTTPService{
		srv: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Handler returns the service's request handler.
func (s *HTTPService) Handler() http.Handler { return s.srv.Handler }

// Start listens until Stop is called.
//
// Postcondition: Returns nil after a clean Stop.
func (s *HTTPService) Start() error {
	s.logger.Info("http listening", zap.String("addr", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop shuts the server down, waiting up to ShutdownTimeout.
func (s *HTTPService) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		s.logger.Warn("http shutdown", zap.Error(err))
	}
}
