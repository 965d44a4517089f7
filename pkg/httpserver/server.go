package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/subscriptions/pkg/logger"
)

// Option configures Server.
type Option func(*Server)

func WithAddr(addr string) Option {
	return func(s *Server) {
		if addr != "" {
			s.addr = addr
		}
	}
}

// WithTimeouts sets the http.Server timeouts. Zero values are left unchanged.
func WithTimeouts(readHeader, read, write, idle time.Duration) Option {
	return func(s *Server) {
		if readHeader > 0 {
			s.readHeaderTimeout = readHeader
		}
		if read > 0 {
			s.readTimeout = read
		}
		if write > 0 {
			s.writeTimeout = write
		}
		if idle > 0 {
			s.idleTimeout = idle
		}
	}
}

func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.shutdownTimeout = d
		}
	}
}

// WithListener serves on an existing listener instead of listening on the address.
func WithListener(l net.Listener) Option {
	return func(s *Server) { s.listener = l }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// Server is a single-use HTTP server.
type Server struct {
	addr              string
	readHeaderTimeout time.Duration
	readTimeout       time.Duration
	writeTimeout      time.Duration
	idleTimeout       time.Duration
	shutdownTimeout   time.Duration
	listener          net.Listener
	logger            *slog.Logger

	mu      sync.Mutex
	running bool
}

func New(opts ...Option) *Server {
	s := &Server{
		addr:              ":8080",
		readHeaderTimeout: 10 * time.Second,
		shutdownTimeout:   10 * time.Second,
		logger:            logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run serves handler until ctx is done, then shuts down gracefully.
// A clean shutdown returns nil.
func (s *Server) Run(ctx context.Context, handler http.Handler) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	s.running = true
	s.mu.Unlock()

	if handler == nil {
		handler = http.NotFoundHandler()
	}

	srv := &http.Server{
		Addr:              s.addr,
		Handler:           handler,
		ReadHeaderTimeout: s.readHeaderTimeout,
		ReadTimeout:       s.readTimeout,
		WriteTimeout:      s.writeTimeout,
		IdleTimeout:       s.idleTimeout,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	ln := s.listener
	if ln == nil {
		var err error
		ln, err = net.Listen("tcp", s.addr)
		if err != nil {
			return errors.Join(ErrStart, err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.InfoContext(ctx, "http server started", slog.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Join(ErrStart, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
		defer cancel()

		s.logger.InfoContext(shutdownCtx, "http server shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Join(ErrShutdown, err)
		}
		s.logger.InfoContext(shutdownCtx, "http server stopped")
		return nil
	})

	return g.Wait()
}
