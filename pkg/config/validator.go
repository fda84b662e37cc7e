package config

import (
	"strings"

	"github.com/Combine-Capital/gqllog/pkg/errors"
)

// rule is one validation check; bad reports whether cfg violates it.
type rule struct {
	field string
	msg   string
	bad   func(*Config) bool
}

var rules = []rule{
	{"server.http_port", "must be between 1 and 65535", func(c *Config) bool {
		return !validPort(c.Server.HTTPPort)
	}},
	{"log.format", "must be json or console", func(c *Config) bool {
		f := strings.ToLower(c.Log.Format)
		return f != "" && f != "json" && f != "console"
	}},
	{"graphql.path", "must start with /", func(c *Config) bool {
		return !strings.HasPrefix(c.GraphQL.Path, "/")
	}},
	{"graphql.playground_path", "must differ from graphql.path", func(c *Config) bool {
		return c.GraphQL.PlaygroundPath != "" && c.GraphQL.PlaygroundPath == c.GraphQL.Path
	}},
	{"graphql.log_target", "must not be empty", func(c *Config) bool {
		return c.GraphQL.LogTarget == ""
	}},
	{"graphql.metric_operations", "must not contain empty names", func(c *Config) bool {
		for _, op := range c.GraphQL.MetricOperations {
			if strings.TrimSpace(op) == "" {
				return true
			}
		}
		return false
	}},
	{"tracing.endpoint", "required when tracing is enabled", func(c *Config) bool {
		return c.Tracing.Enabled && c.Tracing.Endpoint == ""
	}},
	{"tracing.sample_rate", "must be between 0.0 and 1.0", func(c *Config) bool {
		return c.Tracing.Enabled && (c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1)
	}},
	{"metrics.port", "must be between 1 and 65535 when metrics are enabled", func(c *Config) bool {
		return c.Metrics.Enabled && !validPort(c.Metrics.Port)
	}},
}

// Validate checks required fields and value ranges, reporting the first
// violation as an invalid input error for the offending key.
func Validate(cfg *Config) error {
	for _, r := range rules {
		if r.bad(cfg) {
			return errors.NewInvalidInput(r.field, r.msg)
		}
	}
	return nil
}

func validPort(p int) bool {
	return p > 0 && p <= 65535
}
