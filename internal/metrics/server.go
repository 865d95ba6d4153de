package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Server exposes the prometheus endpoint over HTTP
type Server struct {
	statusServer *http.Server
	addr         string
	logger       *zap.Logger
}

// NewServer creates a status server for m listening on addr
func NewServer(addr string, m *Metrics, logger *zap.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	return &Server{
		addr: addr,
		statusServer: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Serve accepts incoming connections on the Listener lis. It returns nil after Shutdown
func (s *Server) Serve(lis net.Listener) error {
	s.logger.Info("metrics server start", zap.String("addr", lis.Addr().String()))

	err := s.statusServer.Serve(lis)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// ListenAndServe binds the configured address and serves on it
func (s *Server) ListenAndServe() error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(lis)
}

// Shutdown stops the server, waiting for in-flight scrapes until ctx is done
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("metrics server stop", zap.String("addr", s.addr))
	return s.statusServer.Shutdown(ctx)
}
