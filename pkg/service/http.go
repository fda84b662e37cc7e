package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	cqerrors "github.com/Combine-Capital/gqllog/pkg/errors"
	"github.com/Combine-Capital/gqllog/pkg/logging"
)

// HTTPService serves an http.Handler and stops gracefully.
type HTTPService struct {
	name            string
	addr            string
	handler         http.Handler
	readTimeout     time.Duration
	writeTimeout    time.Duration
	shutdownTimeout time.Duration
	maxHeaderBytes  int

	mu     sync.Mutex
	server *http.Server
}

// HTTPServiceOption configures an HTTPService. Zero values keep the defaults,
// so options can be fed straight from config.ServerConfig.
type HTTPServiceOption func(*HTTPService)

func positive[T time.Duration | int](v T, dst *T) {
	if v > 0 {
		*dst = v
	}
}

// WithReadTimeout sets the server read timeout. Default 10s.
func WithReadTimeout(d time.Duration) HTTPServiceOption {
	return func(s *HTTPService) { positive(d, &s.readTimeout) }
}

// WithWriteTimeout sets the server write timeout. Default 10s.
func WithWriteTimeout(d time.Duration) HTTPServiceOption {
	return func(s *HTTPService) { positive(d, &s.writeTimeout) }
}

// WithShutdownTimeout bounds Stop when its ctx has no deadline. Default 30s.
func WithShutdownTimeout(d time.Duration) HTTPServiceOption {
	return func(s *HTTPService) { positive(d, &s.shutdownTimeout) }
}

// WithMaxHeaderBytes limits request header size. Default 1 MB.
func WithMaxHeaderBytes(n int) HTTPServiceOption {
	return func(s *HTTPService) { positive(n, &s.maxHeaderBytes) }
}

// NewHTTPService returns a service that will serve handler on addr.
func NewHTTPService(name, addr string, handler http.Handler, opts ...HTTPServiceOption) *HTTPService {
	s := &HTTPService{
		name:            name,
		addr:            addr,
		handler:         handler,
		readTimeout:     10 * time.Second,
		writeTimeout:    10 * time.Second,
		shutdownTimeout: 30 * time.Second,
		maxHeaderBytes:  1 << 20,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start binds addr and serves in the background. A bind failure is returned
// directly; a later serve failure is logged with the logger from ctx. Request
// contexts derive from ctx, so they carry its logger.
func (s *HTTPService) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.server != nil {
		return cqerrors.NewPermanent(fmt.Sprintf("service %s already started", s.name), nil)
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return cqerrors.Wrapf(err, "failed to start HTTP service %s", s.name)
	}

	srv := &http.Server{
		Handler:        s.handler,
		ReadTimeout:    s.readTimeout,
		WriteTimeout:   s.writeTimeout,
		MaxHeaderBytes: s.maxHeaderBytes,
		BaseContext:    func(net.Listener) context.Context { return ctx },
	}
	s.server = srv

	logger := logging.FromContext(ctx)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Str("service", s.name).Msg("HTTP service failed")
		}
	}()

	logger.Info().
		Str("service", s.name).
		Str("addr", ln.Addr().String()).
		Msg("HTTP service started")
	return nil
}

// Stop shuts the server down, waiting for in-flight requests until ctx
// expires, or for the shutdown timeout when ctx has no deadline.
func (s *HTTPService) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.server
	s.server = nil
	s.mu.Unlock()

	if srv == nil {
		return nil
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.shutdownTimeout)
		defer cancel()
	}

	if err := srv.Shutdown(ctx); err != nil {
		return cqerrors.Wrapf(err, "failed to shutdown HTTP service %s", s.name)
	}
	return nil
}

// Name returns the service name.
func (s *HTTPService) Name() string {
	return s.name
}

func (s *HTTPService) running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.server != nil
}
