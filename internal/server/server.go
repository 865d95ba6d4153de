package server

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/eternalApril/moonresp/internal/config"
	"github.com/eternalApril/moonresp/internal/metrics"
	"github.com/eternalApril/moonresp/internal/resp"
)

const maxAcceptBackoff = time.Second

// Server accepts client connections and serves each one from its own goroutine
type Server struct {
	cfg     *config.Config
	engine  *Engine
	metrics *metrics.Metrics
	logger  *zap.Logger

	mu       sync.Mutex
	listener net.Listener
	peers    map[*Peer]struct{}
	wg       sync.WaitGroup
}

// New creates a server. Nothing is bound until Serve or ListenAndServe
func New(cfg *config.Config, engine *Engine, m *metrics.Metrics, logger *zap.Logger) *Server {
	return &Server{
		cfg:     cfg,
		engine:  engine,
		metrics: m,
		logger:  logger,
		peers:   make(map[*Peer]struct{}),
	}
}

// ListenAndServe binds server.host:server.port and serves until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context) error {
	address := net.JoinHostPort(s.cfg.Server.Host, s.cfg.Server.Port)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listener)
}

// Addr returns the address being served, or nil before Serve
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Serve accepts connections on listener until ctx is cancelled, then waits for open
// connections to finish for at most server.shutdown_timeout before closing them
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	s.logger.Info("listening on", zap.String("address", listener.Addr().String()))

	stop := context.AfterFunc(ctx, func() {
		listener.Close() //nolint:errcheck
	})
	defer stop()

	var backoff time.Duration
	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				break
			}

			if backoff == 0 {
				backoff = 5 * time.Millisecond
			} else if backoff *= 2; backoff > maxAcceptBackoff {
				backoff = maxAcceptBackoff
			}
			s.logger.Error("Accept error", zap.Error(err), zap.Duration("retry_in", backoff))
			time.Sleep(backoff)
			continue
		}
		backoff = 0

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConnection(conn)
		}()
	}

	s.drain()
	return nil
}

// drain waits for the connection goroutines, force-closing peers once the timeout passes
func (s *Server) drain() {
	s.logger.Info("Shutting down...")

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	timeout := s.cfg.Server.ShutdownTimeout
	select {
	case <-done:
		s.logger.Info("All connections closed gracefully")
		return
	case <-time.After(timeout):
	}

	s.mu.Lock()
	open := len(s.peers)
	for p := range s.peers {
		p.Close() //nolint:errcheck
	}
	s.mu.Unlock()

	s.logger.Warn("Shutdown timed out, closing connections",
		zap.Duration("timeout", timeout),
		zap.Int("connections", open),
	)
	<-done
}

func (s *Server) track(p *Peer, add bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if add {
		s.peers[p] = struct{}{}
	} else {
		delete(s.peers, p)
	}
}

// handleConnection handles a connection for a single user
func (s *Server) handleConnection(conn net.Conn) {
	peer := NewPeer(conn, s.cfg.RESP)
	log := s.logger.With(zap.String("conn", peer.ID()), zap.String("addr", peer.RemoteAddr()))

	s.track(peer, true)
	s.metrics.ConnectionsTotal.Inc()
	s.metrics.ConnectionsOnline.Inc()

	if log.Core().Enabled(zap.DebugLevel) {
		log.Debug("client connected")
	}

	defer func() {
		peer.Close() //nolint:errcheck
		s.track(peer, false)
		s.metrics.ConnectionsOnline.Dec()
		// log connection close
		if log.Core().Enabled(zap.DebugLevel) {
			log.Debug("client disconnected")
		}
	}()

	for {
		req, err := peer.ReadCommand()
		if err != nil {
			s.readFailed(peer, log, err)
			return
		}
		s.metrics.FramesDecoded.WithLabelValues(req.Kind()).Inc()

		reply := s.engine.Dispatch(req)

		if err = peer.Send(reply); err != nil {
			if !errors.Is(err, resp.ErrUnencodableString) {
				log.Error("error writing response:", zap.Error(err))
				return
			}
			log.Error("command produced an unencodable reply", zap.Error(err))
			if err = peer.Send(resp.MakeError("ERR internal error: reply cannot be encoded")); err != nil {
				return
			}
		}

		if peer.InputBuffered() == 0 {
			if err := peer.Flush(); err != nil {
				return
			}
		}
	}
}

// readFailed reports why a connection stops being read. Malformed input gets one
// error reply: RESP cannot resynchronise, so the connection is closed after it
func (s *Server) readFailed(peer *Peer, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, io.EOF), errors.Is(err, net.ErrClosed):
		return
	case resp.IsProtocolError(err):
		s.metrics.ProtocolErrors.WithLabelValues(resp.ErrorKind(err)).Inc()
		log.Warn("protocol error, closing connection", zap.Error(err))

		if sendErr := peer.Send(resp.MakeErrorf("ERR Protocol error: %s", err.Error())); sendErr == nil {
			peer.Flush() //nolint:errcheck
		}
	default:
		log.Warn("read command failed", zap.Error(err))
	}
}
