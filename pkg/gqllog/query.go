package gqllog

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Bounds of the generated query id, inclusive.
const (
	MinQueryID uint64 = 100_000_000
	MaxQueryID uint64 = 999_999_999
)

// QueryContext is the per-request state shared by the logging hooks.
// The id is fixed at creation. Everything else is read and written under mu.
type QueryContext struct {
	id uint64

	mu            sync.Mutex
	startTime     time.Time
	isSchemaQuery bool
	parsed        bool // the parse hook saw a document
}

// NewQueryContext returns a context with a fresh random id and the current time.
func NewQueryContext() *QueryContext {
	return newQueryContext(MinQueryID+rand.Uint64N(MaxQueryID-MinQueryID+1), time.Now())
}

func newQueryContext(id uint64, start time.Time) *QueryContext {
	return &QueryContext{
		id:        id,
		startTime: start,
	}
}

// ID returns the correlation id.
func (q *QueryContext) ID() uint64 {
	return q.id
}

// StartTime returns the time the request arrived.
func (q *QueryContext) StartTime() time.Time {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.startTime
}

// IsSchemaQuery reports whether the parsed document was an introspection query.
func (q *QueryContext) IsSchemaQuery() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.isSchemaQuery
}

// markParsed records a successful parse and whether it was an introspection query.
func (q *QueryContext) markParsed(isSchema bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.parsed = true
	q.isSchemaQuery = isSchema
}

// Parsed reports whether the parse hook has run for this request.
func (q *QueryContext) Parsed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.parsed
}

// snapshot reads the flag and the start time under a single lock.
func (q *QueryContext) snapshot() (isSchema bool, start time.Time) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.isSchemaQuery, q.startTime
}
