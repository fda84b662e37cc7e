// Package metrics provides Prometheus metrics for GraphQL query logging: a
// registry with an optional /metrics endpoint, validated counter and histogram
// wrappers, and a recorder for the GraphQL operation metrics.
//
// Example usage:
//
//	if err := metrics.Init(ctx, cfg.Metrics); err != nil {
//	    log.Fatal(err)
//	}
//	defer metrics.Shutdown(context.Background())
//
//	recorder, err := metrics.NewGraphQLRecorder("myapp", cfg.GraphQL.MetricOperations)
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/Combine-Capital/gqllog/pkg/config"
	"github.com/Combine-Capital/gqllog/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const defaultPath = "/metrics"

// state is the process-wide registry and its optional HTTP endpoint.
var state struct {
	sync.RWMutex
	registry *prometheus.Registry
	server   *http.Server
}

// Init creates the registry once per process. With metrics enabled it also
// registers the Go and process collectors and serves them on cfg.Port at
// cfg.Path. A server that fails after startup is logged through the logger
// in ctx and does not stop the service. Later calls are no-ops.
func Init(ctx context.Context, cfg config.MetricsConfig) error {
	state.Lock()
	defer state.Unlock()

	if state.registry != nil {
		return nil
	}

	reg := prometheus.NewRegistry()
	state.registry = reg
	if !cfg.Enabled {
		return nil
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	path := cfg.Path
	if path == "" {
		path = defaultPath
	}
	mux := http.NewServeMux()
	mux.Handle(path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true}))

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	state.server = srv

	logger := logging.FromContext(ctx)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Str("addr", srv.Addr).Msg("metrics server stopped")
		}
	}()
	return nil
}

// Shutdown stops the metrics endpoint, if one is running.
func Shutdown(ctx context.Context) error {
	state.Lock()
	srv := state.server
	state.server = nil
	state.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// Registry returns the registry, or nil before Init.
func Registry() *prometheus.Registry {
	state.RLock()
	defer state.RUnlock()
	return state.registry
}

// IsInitialized reports whether Init has run.
func IsInitialized() bool {
	return Registry() != nil
}
