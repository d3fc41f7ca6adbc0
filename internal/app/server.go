package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
)

// Server wraps http.Server with graceful shutdown capabilities.
type Server struct {
	httpServer      *http.Server
	shutdownTimeout time.Duration
	cancelStreams   context.CancelFunc
}

// NewServer creates a new Server instance.
func NewServer(handler http.Handler, port string) *Server {
	// request contexts derive from base so open cart event streams end when
	// shutdown begins instead of holding it until the timeout
	base, cancel := context.WithCancel(context.Background())
	s := &Server{
		httpServer: &http.Server{
			Addr:        ":" + port,
			Handler:     handler,
			ReadTimeout: 15 * time.Second,
			// event streams stay open; handlers are bounded by the Timeout middleware
			WriteTimeout:   0,
			IdleTimeout:    60 * time.Second,
			MaxHeaderBytes: 1 << 20, // 1MB
			BaseContext:    func(net.Listener) context.Context { return base },
		},
		shutdownTimeout: 10 * time.Second,
		cancelStreams:   cancel,
	}
	s.httpServer.RegisterOnShutdown(cancel)
	return s
}

// Run starts the server and blocks until a shutdown signal is received.
func (s *Server) Run() error {
	errChan := make(chan error, 1)

	go func() {
		log.Info().Str("addr", s.httpServer.Addr).Msg("Server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errChan:
		s.cancelStreams()
		return err
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Received signal, initiating graceful shutdown")
	}

	return s.Shutdown()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		return err
	}

	log.Info().Msg("Server stopped gracefully")
	return nil
}
