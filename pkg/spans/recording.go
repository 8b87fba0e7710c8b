package spans

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/huandu/go-clone"
	"github.com/pkg/errors"
)

// Record is a point-in-time copy of a RecordingSpan.
type Record struct {
	SpanID   string             `json:"span_id" yaml:"span_id"`
	Name     string             `json:"name" yaml:"name"`
	Start    time.Time          `json:"start" yaml:"start"`
	End      time.Time          `json:"end,omitempty" yaml:"end,omitempty"`
	Error    bool               `json:"error" yaml:"error"`
	Tags     map[string]string  `json:"tags" yaml:"tags"`
	Metrics  map[string]float64 `json:"metrics" yaml:"metrics"`
	Source   string             `json:"source,omitempty" yaml:"source,omitempty"`
	Duration time.Duration      `json:"duration_ns,omitempty" yaml:"duration_ns,omitempty"`
}

// RecordingSpan keeps every tag and metric in memory and counts writes.
type RecordingSpan struct {
	mu     sync.Mutex
	record Record
	writes int
}

var _ Span = (*RecordingSpan)(nil)

func NewRecordingSpan(name string) *RecordingSpan {
	return &RecordingSpan{
		record: Record{
			SpanID:  uuid.NewString(),
			Name:    name,
			Start:   time.Now(),
			Tags:    map[string]string{},
			Metrics: map[string]float64{},
		},
	}
}

func (s *RecordingSpan) SetTag(key string, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record.Tags[key] = value
	s.writes++
}

func (s *RecordingSpan) SetMetric(key string, value float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record.Metrics[key] = value
	s.writes++
}

func (s *RecordingSpan) GetTag(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.record.Tags[key]
	return v, ok
}

func (s *RecordingSpan) GetMetric(key string) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.record.Metrics[key]
	return v, ok
}

// SetTraceback marks the span as errored. Errors without a recorded stack get
// one captured here.
func (s *RecordingSpan) SetTraceback(err error) {
	if err == nil {
		return
	}
	if _, ok := err.(interface{ StackTrace() errors.StackTrace }); !ok {
		err = errors.WithStack(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.record.Error = true
	s.record.Tags[ErrorMsgTag] = err.Error()
	s.record.Tags[ErrorTypeTag] = fmt.Sprintf("%T", errors.Cause(err))
	s.record.Tags[ErrorStackTag] = fmt.Sprintf("%+v", err)
	s.writes += 3
}

// SetSource records where the span's payload came from (a fixture path, a
// request id). It is not counted as a write.
func (s *RecordingSpan) SetSource(source string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record.Source = source
}

func (s *RecordingSpan) Finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.record.End.IsZero() {
		return
	}
	s.record.End = time.Now()
	s.record.Duration = s.record.End.Sub(s.record.Start)
}

// Writes returns how many tag, metric and traceback writes the span received.
func (s *RecordingSpan) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func (s *RecordingSpan) Snapshot() Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone.Clone(s.record).(Record)
}
