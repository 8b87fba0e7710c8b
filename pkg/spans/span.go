// Package spans defines the span capability the tagging code writes to, and an
// in-memory implementation used by the CLI and by tests.
package spans

// Span is the part of a tracer span the LLM observability integrations need.
// Implementations must tolerate concurrent use only across different spans,
// a single span is written by one traced call at a time.
type Span interface {
	SetTag(key string, value string)
	SetMetric(key string, value float64)
	GetTag(key string) (string, bool)
	GetMetric(key string) (float64, bool)
	// SetTraceback attaches err and its stack trace to the span.
	SetTraceback(err error)
}

const (
	ErrorMsgTag   = "error.message"
	ErrorTypeTag  = "error.type"
	ErrorStackTag = "error.stack"
)
