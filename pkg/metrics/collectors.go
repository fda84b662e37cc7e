package metrics

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Combine-Capital/gqllog/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	metricNameRE = regexp.MustCompile(`^[a-zA-Z_:][a-zA-Z0-9_:]*$`)
	labelNameRE  = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
)

// Opts names a collector. The full name is namespace_subsystem_name.
type Opts struct {
	Namespace string
	Subsystem string
	Name      string
	Help      string
	Labels    []string
}

// Counter is a registered Prometheus counter vector.
type Counter struct {
	vec *prometheus.CounterVec
}

// NewCounter validates opts and registers a counter vector.
func NewCounter(opts Opts) (*Counter, error) {
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: opts.Namespace,
		Subsystem: opts.Subsystem,
		Name:      opts.Name,
		Help:      opts.Help,
	}, opts.Labels)

	if err := register(opts, vec); err != nil {
		return nil, err
	}
	return &Counter{vec: vec}, nil
}

// Add increments the series for labelValues by a non-negative value.
func (c *Counter) Add(value float64, labelValues ...string) {
	c.vec.WithLabelValues(labelValues...).Add(value)
}

// Histogram is a registered Prometheus histogram vector.
type Histogram struct {
	vec *prometheus.HistogramVec
}

// NewHistogram validates opts and registers a histogram vector. Nil buckets
// mean prometheus.DefBuckets.
func NewHistogram(opts Opts, buckets []float64) (*Histogram, error) {
	if buckets == nil {
		buckets = prometheus.DefBuckets
	}
	vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: opts.Namespace,
		Subsystem: opts.Subsystem,
		Name:      opts.Name,
		Help:      opts.Help,
		Buckets:   buckets,
	}, opts.Labels)

	if err := register(opts, vec); err != nil {
		return nil, err
	}
	return &Histogram{vec: vec}, nil
}

// Observe adds one observation to the series for labelValues.
func (h *Histogram) Observe(value float64, labelValues ...string) {
	h.vec.WithLabelValues(labelValues...).Observe(value)
}

// register checks opts against the Prometheus naming rules and adds c to the
// registry created by Init.
func register(opts Opts, c prometheus.Collector) error {
	reg := Registry()
	if reg == nil {
		return errors.NewPermanent("metrics not initialized, call Init() first", nil)
	}
	if err := checkNames(opts); err != nil {
		return err
	}
	if err := reg.Register(c); err != nil {
		return errors.NewPermanent(fmt.Sprintf("failed to register %s", opts.Name), err)
	}
	return nil
}

func checkNames(opts Opts) error {
	fqName := prometheus.BuildFQName(opts.Namespace, opts.Subsystem, opts.Name)
	if opts.Name == "" || !metricNameRE.MatchString(fqName) {
		return errors.NewInvalidInput("name", fmt.Sprintf("invalid metric name: %q", fqName))
	}

	for _, label := range opts.Labels {
		switch {
		case !labelNameRE.MatchString(label):
			return errors.NewInvalidInput("labels", fmt.Sprintf("invalid label name: %q", label))
		case strings.HasPrefix(label, "__"):
			return errors.NewInvalidInput("labels", fmt.Sprintf("label name %q is reserved", label))
		}
	}
	return nil
}
