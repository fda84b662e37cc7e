package metrics

import (
	"time"
)

const (
	graphqlSubsystem = "graphql"

	// AnonymousOperation labels operations sent without a name.
	AnonymousOperation = "anonymous"

	// OtherOperation labels named operations outside the allow-list.
	OtherOperation = "other"
)

// GraphQLRecorder turns query logger observations into Prometheus metrics.
// Its method set matches gqllog.Recorder.
//
// Operation names come from clients, so only names in the allow-list given
// to NewGraphQLRecorder become label values. Every other name is counted
// under "other", which keeps the number of series bounded.
type GraphQLRecorder struct {
	duration           *Histogram
	validationFailures *Counter
	executionErrors    *Counter
	operations         map[string]struct{}
}

// NewGraphQLRecorder registers the GraphQL metrics under namespace. Init must
// have been called first. operations is the allow-list of operation names
// reported as their own label value.
func NewGraphQLRecorder(namespace string, operations []string) (*GraphQLRecorder, error) {
	r := &GraphQLRecorder{operations: make(map[string]struct{}, len(operations))}
	for _, op := range operations {
		r.operations[op] = struct{}{}
	}

	var err error
	r.duration, err = NewHistogram(Opts{
		Namespace: namespace,
		Subsystem: graphqlSubsystem,
		Name:      "operation_duration_seconds",
		Help:      "Time from query arrival to execution completion",
		Labels:    []string{"operation"},
	}, []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10})
	if err != nil {
		return nil, err
	}

	r.validationFailures, err = NewCounter(Opts{
		Namespace: namespace,
		Subsystem: graphqlSubsystem,
		Name:      "validation_failures_total",
		Help:      "Number of validation errors reported for incoming queries",
	})
	if err != nil {
		return nil, err
	}

	r.executionErrors, err = NewCounter(Opts{
		Namespace: namespace,
		Subsystem: graphqlSubsystem,
		Name:      "errors_total",
		Help:      "Number of errors carried in execution responses",
		Labels:    []string{"operation"},
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// ObserveValidationFailures counts n validation errors.
func (r *GraphQLRecorder) ObserveValidationFailures(n int) {
	if n > 0 {
		r.validationFailures.Add(float64(n))
	}
}

// ObserveExecution records one completed operation.
func (r *GraphQLRecorder) ObserveExecution(operation string, d time.Duration, errCount int) {
	label := r.label(operation)
	r.duration.Observe(d.Seconds(), label)
	if errCount > 0 {
		r.executionErrors.Add(float64(errCount), label)
	}
}

// label maps an operation name to its bounded label value.
func (r *GraphQLRecorder) label(operation string) string {
	if operation == "" {
		return AnonymousOperation
	}
	if _, ok := r.operations[operation]; ok {
		return operation
	}
	return OtherOperation
}
