// Package config loads configuration for services that host the gqllog query logger.
// Values come from a YAML or JSON file and from environment variables, then defaults
// are applied and the result is validated.
//
// Example usage:
//
//	cfg, err := config.Load("config.yaml", "GQL")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Or panic on error:
//	cfg := config.MustLoad("config.yaml", "GQL")
package config

import (
	"time"
)

// Config is the complete configuration of a GraphQL service using gqllog.
type Config struct {
	Service ServiceConfig `mapstructure:"service"`
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Tracing TracingConfig `mapstructure:"tracing"`
	GraphQL GraphQLConfig `mapstructure:"graphql"`
}

// ServiceConfig contains general service information.
type ServiceConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
	Env     string `mapstructure:"env"` // development, staging, production
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	HTTPPort        int           `mapstructure:"http_port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxHeaderBytes  int           `mapstructure:"max_header_bytes"`
}

// LogConfig contains structured logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
	Output string `mapstructure:"output"` // stdout, stderr, file path

	// MaxSizeMB, MaxBackups and MaxAgeDays control rotation when Output is a file path.
	MaxSizeMB  int `mapstructure:"max_size_mb"`
	MaxBackups int `mapstructure:"max_backups"`
	MaxAgeDays int `mapstructure:"max_age_days"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Port      int    `mapstructure:"port"`
	Path      string `mapstructure:"path"`
	Namespace string `mapstructure:"namespace"` // Metric prefix
}

// TracingConfig contains OpenTelemetry tracing configuration.
type TracingConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Endpoint     string        `mapstructure:"endpoint"`     // OTLP endpoint (e.g., "localhost:4317")
	SampleRate   float64       `mapstructure:"sample_rate"`  // 0.0 to 1.0
	ServiceName  string        `mapstructure:"service_name"` // Override service name for traces
	Version      string        `mapstructure:"version"`      // Defaults to service.version
	Environment  string        `mapstructure:"environment"`
	ExportMode   string        `mapstructure:"export_mode"` // "grpc" or "http"
	Insecure     bool          `mapstructure:"insecure"`
	BatchTimeout time.Duration `mapstructure:"batch_timeout"`
}

// GraphQLConfig contains settings for the GraphQL endpoint and its query logger.
type GraphQLConfig struct {
	// Path is where the GraphQL endpoint is mounted. Default: "/api".
	Path string `mapstructure:"path"`

	// PlaygroundPath mounts the GraphQL playground. Empty disables it.
	PlaygroundPath string `mapstructure:"playground_path"`

	// LogTarget is the category label attached to every query log line.
	// Default: "gql_logger".
	LogTarget string `mapstructure:"log_target"`

	// RedactVariables lists variable names printed as "***" in logged queries.
	RedactVariables []string `mapstructure:"redact_variables"`

	// MetricOperations lists the operation names reported as their own
	// metric label value. Other named operations share the "other" label.
	MetricOperations []string `mapstructure:"metric_operations"`

	// EnableIntrospection allows __schema and __type queries.
	EnableIntrospection bool `mapstructure:"enable_introspection"`
}
