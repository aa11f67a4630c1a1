package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrymomot/templatestyles/pkg/logger"
)

// Server runs an http.Server until its context is cancelled or the process
// receives SIGINT/SIGTERM, then shuts it down gracefully.
type Server struct {
	opts options

	mu   sync.Mutex
	srv  *http.Server
	addr net.Addr
}

func New(opts ...Option) *Server {
	o := options{
		addr:            ":8080",
		shutdownTimeout: 10 * time.Second,
		logger:          logger.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Server{opts: o}
}

// Addr returns the bound address once Run is listening, nil before.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Run serves handler and blocks until shutdown completes. A clean shutdown
// returns nil.
func (s *Server) Run(ctx context.Context, handler http.Handler) error {
	if handler == nil {
		handler = http.NotFoundHandler()
	}

	s.mu.Lock()
	if s.srv != nil {
		s.mu.Unlock()
		return errors.Join(ErrStart, ErrAlreadyRunning)
	}
	srv := &http.Server{
		Handler:      handler,
		ReadTimeout:  s.opts.readTimeout,
		WriteTimeout: s.opts.writeTimeout,
		IdleTimeout:  s.opts.idleTimeout,
		BaseContext:  func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}
	s.srv = srv
	s.mu.Unlock()

	ln := s.opts.listener
	if ln == nil {
		var err error
		if ln, err = net.Listen("tcp", s.opts.addr); err != nil {
			s.mu.Lock()
			s.srv = nil
			s.mu.Unlock()
			return errors.Join(ErrStart, err)
		}
	}

	s.mu.Lock()
	s.addr = ln.Addr()
	s.mu.Unlock()

	log := s.opts.logger
	log.InfoContext(ctx, "http server started", "addr", ln.Addr().String())

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	select {
	case err = <-errCh:
	case <-sigCtx.Done():
		err = s.Shutdown(context.WithoutCancel(ctx))
		if serveErr := <-errCh; !errors.Is(serveErr, http.ErrServerClosed) {
			err = errors.Join(err, serveErr)
		}
	}

	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.ErrorContext(ctx, "http server stopped with error", logger.Error(err))
		return errors.Join(ErrStart, err)
	}
	log.InfoContext(ctx, "http server stopped")
	return nil
}

// Shutdown drains in-flight requests within the shutdown timeout. It is a
// no-op before Run and safe to call more than once.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.mu.Unlock()
	if srv == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return errors.Join(ErrShutdown, err)
	}
	return nil
}
