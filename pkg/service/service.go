// Package service manages the lifecycle of the HTTP server that hosts the
// GraphQL endpoint: start, graceful stop, cleanup hooks and signal handling.
//
// Example usage:
//
//	svc := service.NewHTTPService("health-api", ":8888", handler,
//	    service.WithShutdownTimeout(30*time.Second),
//	)
//	if err := svc.Start(ctx); err != nil {
//	    logger.Fatal().Err(err).Msg("start failed")
//	}
//	service.WaitForShutdown(ctx, service.ShutdownConfig{}, svc)
package service

import "context"

// Service is a long running component stopped on shutdown.
type Service interface {
	// Start returns once the service accepts work.
	Start(ctx context.Context) error

	// Stop drains in-flight work until the ctx deadline, then stops.
	Stop(ctx context.Context) error

	// Name identifies the service in logs.
	Name() string
}
