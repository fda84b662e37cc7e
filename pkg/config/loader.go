package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/Combine-Capital/gqllog/pkg/errors"
	"github.com/spf13/viper"
)

// DefaultLogTarget is the category label used for query log lines.
const DefaultLogTarget = "gql_logger"

// defaults lists every key Load understands. Registering each one with viper
// lets environment variables reach keys that the file does not mention.
var defaults = map[string]any{
	"service.name":    "",
	"service.version": "",
	"service.env":     "development",

	"server.http_port":        8888,
	"server.read_timeout":     30 * time.Second,
	"server.write_timeout":    30 * time.Second,
	"server.shutdown_timeout": 30 * time.Second,
	"server.max_header_bytes": 1 << 20,

	"log.level":        "info",
	"log.format":       "json",
	"log.output":       "stdout",
	"log.max_size_mb":  100,
	"log.max_backups":  3,
	"log.max_age_days": 28,

	"metrics.enabled":   false,
	"metrics.port":      9090,
	"metrics.path":      "/metrics",
	"metrics.namespace": "",

	"tracing.enabled":       false,
	"tracing.endpoint":      "",
	"tracing.sample_rate":   0.1,
	"tracing.service_name":  "",
	"tracing.version":       "",
	"tracing.environment":   "",
	"tracing.export_mode":   "grpc",
	"tracing.insecure":      false,
	"tracing.batch_timeout": 5 * time.Second,

	"graphql.path":                 "/api",
	"graphql.playground_path":      "",
	"graphql.log_target":           DefaultLogTarget,
	"graphql.redact_variables":     []string{},
	"graphql.metric_operations":    []string{},
	"graphql.enable_introspection": false,
}

// Load reads configuration from configPath (if not empty) and from environment
// variables named with envPrefix (e.g. "GQL" -> GQL_GRAPHQL_PATH), fills in
// defaults and validates the result. List values given through the
// environment are comma separated.
func Load(configPath, envPrefix string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrap(err, "failed to read config file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	cfg.derive()

	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}
	return &cfg, nil
}

// MustLoad is Load that panics on error. Meant for main().
func MustLoad(configPath, envPrefix string) *Config {
	cfg, err := Load(configPath, envPrefix)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}

// derive fills the values that default to other settings.
func (c *Config) derive() {
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "gqllog"
		if c.Service.Name != "" {
			c.Metrics.Namespace = strings.ReplaceAll(c.Service.Name, "-", "_")
		}
	}

	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = c.Service.Name
	}
	if c.Tracing.Version == "" {
		c.Tracing.Version = c.Service.Version
	}
	if c.Tracing.Environment == "" {
		c.Tracing.Environment = c.Service.Env
	}
}
