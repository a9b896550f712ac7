package observability

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"
)

// Span is an in-process request trace. One span is opened per HTTP request;
// handlers may attach tags or an error, and the tracing middleware reports
// the finished span through the structured logger.
type Span struct {
	TraceID   string
	Operation string
	Start     time.Time
	Duration  time.Duration
	Tags      map[string]string
	Err       error
}

type spanContextKey struct{}

// StartSpan opens a span and stores it on the context so downstream handlers
// can reach it via SpanFromContext.
func StartSpan(ctx context.Context, operation string) (context.Context, *Span) {
	span := &Span{
		TraceID:   generateID(),
		Operation: operation,
		Start:     time.Now(),
		Tags:      make(map[string]string),
	}
	return context.WithValue(ctx, spanContextKey{}, span), span
}

// SpanFromContext returns the request's span, or nil outside a traced request.
func SpanFromContext(ctx context.Context) *Span {
	span, _ := ctx.Value(spanContextKey{}).(*Span)
	return span
}

// Finish records the span's duration. Reporting is the caller's concern.
func (s *Span) Finish() {
	s.Duration = time.Since(s.Start)
}

func (s *Span) SetTag(key, value string) {
	s.Tags[key] = value
}

// SetError marks the span failed. The last error set wins.
func (s *Span) SetError(err error) {
	s.Err = err
}

func generateID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
