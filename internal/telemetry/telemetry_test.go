package telemetry

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/unkn0wn-root/mentionpad/internal/errdef"
)

func newRecorded(t *testing.T) (Instrumenter, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	inst, err := New(
		Config{ServiceName: "mentionpad-test", Version: "test"},
		WithSpanProcessor(recorder),
	)
	if err != nil {
		t.Fatalf("New instrumenter: %v", err)
	}
	t.Cleanup(func() {
		_ = inst.Shutdown(context.Background())
	})
	return inst, recorder
}

func TestInstrumenterRecordsQuery(t *testing.T) {
	inst, recorder := newRecorded(t)

	ctx, span := inst.StartQuery(context.Background(), QueryStart{Source: "sqlite", Query: "Bo"})
	if ctx == nil || span == nil {
		t.Fatalf("expected span to be created")
	}
	span.End(QueryResult{Count: 3})

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	ro := spans[0]
	if got := ro.Name(); got != "mention.search" {
		t.Fatalf("unexpected span name %q", got)
	}
	assertAttribute(t, ro, "mentionpad.source", "sqlite")
	assertAttribute(t, ro, "mentionpad.query.length", int64(2))
	assertAttribute(t, ro, "mentionpad.query.results", int64(3))
	if ro.Status().Code != codes.Ok {
		t.Fatalf("expected span status OK, got %v", ro.Status().Code)
	}
}

func TestInstrumenterRecordsSubmitFailure(t *testing.T) {
	inst, recorder := newRecorded(t)

	msg := "hi @Ada Lovelace and @Bob"
	_, span := inst.StartSubmit(context.Background(), SubmitStart{
		Length:   len(msg),
		Mentions: CountMentions(msg),
	})
	span.End(errdef.New(errdef.CodeRelay, "connection lost"))

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	ro := spans[0]
	assertAttribute(t, ro, "mentionpad.source", "local")
	assertAttribute(t, ro, "mentionpad.message.mentions", int64(2))
	assertAttribute(t, ro, "mentionpad.error.code", "relay")
	if ro.Status().Code != codes.Error {
		t.Fatalf("expected error status, got %v", ro.Status().Code)
	}
}

func TestNewWithoutEndpointIsNoop(t *testing.T) {
	inst, err := New(Config{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := inst.(noopInstrumenter); !ok {
		t.Fatalf("expected noop instrumenter, got %T", inst)
	}
	ctx := context.Background()
	gotCtx, span := inst.StartQuery(ctx, QueryStart{})
	if gotCtx != ctx {
		t.Fatalf("expected noop to return the same context")
	}
	span.End(QueryResult{})
}

func assertAttribute(t *testing.T, span sdktrace.ReadOnlySpan, key string, want interface{}) {
	t.Helper()
	attrs := span.Attributes()
	for _, attr := range attrs {
		if string(attr.Key) != key {
			continue
		}
		switch v := want.(type) {
		case string:
			if attr.Value.AsString() == v {
				return
			}
		case bool:
			if attr.Value.AsBool() == v {
				return
			}
		case int64:
			if attr.Value.AsInt64() == v {
				return
			}
		}
		t.Fatalf("attribute %s mismatch: got %v, want %v", key, attr.Value, want)
	}
	t.Fatalf("attribute %s not found", key)
}

// keepingExporter holds on to spans across provider shutdown, which resets
// the in-memory exporter.
type keepingExporter struct {
	*tracetest.InMemoryExporter
}

func (keepingExporter) Shutdown(context.Context) error { return nil }

func TestInstrumenterExportsThroughExporter(t *testing.T) {
	exporter := keepingExporter{tracetest.NewInMemoryExporter()}
	inst, err := New(Config{ServiceName: "mentionpad-test"}, WithExporter(exporter))
	if err != nil {
		t.Fatalf("New instrumenter: %v", err)
	}

	_, span := inst.StartSubmit(context.Background(), SubmitStart{Source: "local", Length: 5})
	span.End(nil)
	if err := inst.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	spans := exporter.GetSpans()
	if len(spans) != 1 || spans[0].Name != "message.submit" {
		t.Fatalf("expected one exported submit span, got %+v", spans)
	}
}
