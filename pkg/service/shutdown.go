package service

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Combine-Capital/gqllog/pkg/logging"
)

const defaultShutdownTimeout = 30 * time.Second

// ShutdownConfig configures WaitForShutdown. Zero values mean a 30s timeout
// and SIGINT plus SIGTERM.
type ShutdownConfig struct {
	Timeout time.Duration
	Signals []os.Signal
}

// WaitForShutdown blocks until one of the configured signals arrives or ctx
// is done, then stops services in order within the timeout. A service that
// fails to stop is logged with the logger from ctx and the rest still stop.
func WaitForShutdown(ctx context.Context, cfg ShutdownConfig, services ...Service) {
	logger := logging.FromContext(ctx)

	signals := cfg.Signals
	if len(signals) == 0 {
		signals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}

	sigCtx, stop := signal.NotifyContext(ctx, signals...)
	<-sigCtx.Done()
	stop()
	logger.Info().Msg("initiating graceful shutdown")

	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	for _, svc := range services {
		ev := logger.Info()
		if err := svc.Stop(stopCtx); err != nil {
			ev = logger.Error().Err(err)
		}
		ev.Str("service", svc.Name()).Msg("service stopped")
	}
	logger.Info().Msg("graceful shutdown completed")
}

// CleanupFunc releases a resource during shutdown.
type CleanupFunc func(context.Context) error

// CleanupHandler runs registered cleanups in reverse registration order, so
// resources are released in the opposite order they were acquired.
type CleanupHandler struct {
	funcs []CleanupFunc
}

// NewCleanupHandler returns an empty CleanupHandler.
func NewCleanupHandler() *CleanupHandler {
	return &CleanupHandler{}
}

// Register queues fn to run on Execute.
func (h *CleanupHandler) Register(fn CleanupFunc) {
	h.funcs = append(h.funcs, fn)
}

// Execute runs every cleanup, last registered first. Failures are logged with
// the logger from ctx and do not stop the remaining cleanups; the first one
// is returned.
func (h *CleanupHandler) Execute(ctx context.Context) error {
	var first error
	for i := len(h.funcs) - 1; i >= 0; i-- {
		err := h.funcs[i](ctx)
		if err == nil {
			continue
		}
		logging.FromContext(ctx).Error().Err(err).Msg("cleanup error")
		if first == nil {
			first = err
		}
	}
	return first
}
