package observability

import (
	"context"
	"errors"
	"testing"
)

func TestSpanLifecycle(t *testing.T) {
	ctx, span := StartSpan(context.Background(), "GET /api/buckets")

	if span.TraceID == "" {
		t.Error("span has no trace id")
	}
	if span.Operation != "GET /api/buckets" {
		t.Errorf("operation = %q", span.Operation)
	}

	if got := SpanFromContext(ctx); got != span {
		t.Error("SpanFromContext did not return the started span")
	}

	span.SetTag("buckets.by", "region")
	if span.Tags["buckets.by"] != "region" {
		t.Errorf("tags = %v", span.Tags)
	}

	boom := errors.New("boom")
	span.SetError(boom)
	if span.Err != boom {
		t.Errorf("err = %v", span.Err)
	}

	span.Finish()
	if span.Duration <= 0 {
		t.Errorf("duration = %v, want positive after Finish", span.Duration)
	}
}

func TestSpanFromContextMissing(t *testing.T) {
	if span := SpanFromContext(context.Background()); span != nil {
		t.Errorf("got %+v from an untraced context", span)
	}
}

func TestSpanTraceIDsDistinct(t *testing.T) {
	_, a := StartSpan(context.Background(), "a")
	_, b := StartSpan(context.Background(), "b")
	if a.TraceID == b.TraceID {
		t.Errorf("two spans share trace id %q", a.TraceID)
	}
}

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-123")
	if got := GetRequestID(ctx); got != "req-123" {
		t.Errorf("GetRequestID() = %q, want req-123", got)
	}
	if got := GetRequestID(context.Background()); got != "" {
		t.Errorf("GetRequestID() = %q on a bare context, want empty", got)
	}
}
