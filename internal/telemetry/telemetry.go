package telemetry

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/unkn0wn-root/mentionpad/internal/errdef"
	"github.com/unkn0wn-root/mentionpad/internal/mention"
)

var tracerName = "github.com/unkn0wn-root/mentionpad/internal/telemetry"

// Instrumenter opens spans around suggestion queries and message submissions.
type Instrumenter interface {
	StartQuery(ctx context.Context, info QueryStart) (context.Context, QuerySpan)
	StartSubmit(ctx context.Context, info SubmitStart) (context.Context, SubmitSpan)
	Shutdown(ctx context.Context) error
}

type QueryStart struct {
	Source string
	Query  string
}

type QueryResult struct {
	Count int
	Err   error
}

type QuerySpan interface {
	End(result QueryResult)
}

type SubmitStart struct {
	Source   string
	Length   int
	Mentions int
}

type SubmitSpan interface {
	End(err error)
}

type providerOptions struct {
	exporter       sdktrace.SpanExporter
	spanProcessors []sdktrace.SpanProcessor
}

type Option func(*providerOptions)

func WithSpanProcessor(proc sdktrace.SpanProcessor) Option {
	return func(opts *providerOptions) {
		if proc != nil {
			opts.spanProcessors = append(opts.spanProcessors, proc)
		}
	}
}

func WithExporter(exp sdktrace.SpanExporter) Option {
	return func(opts *providerOptions) {
		if exp != nil {
			opts.exporter = exp
		}
	}
}

type manager struct {
	tracer   trace.Tracer
	provider *sdktrace.TracerProvider
	shutdown sync.Once
}

// New returns Noop unless an endpoint is configured or an exporter or span
// processor is supplied.
func New(cfg Config, opts ...Option) (Instrumenter, error) {
	builder := providerOptions{}
	for _, opt := range opts {
		opt(&builder)
	}

	if !cfg.Enabled() && builder.exporter == nil && len(builder.spanProcessors) == 0 {
		return Noop(), nil
	}

	res, err := resource.New(
		context.Background(),
		resource.WithSchemaURL(semconv.SchemaURL),
		resource.WithAttributes(buildResourceAttributes(cfg)...),
	)
	if err != nil {
		return nil, errdef.Wrap(errdef.CodeConfig, err, "telemetry resource")
	}

	exporter := builder.exporter
	if exporter == nil && cfg.Enabled() {
		exporter, err = newExporter(cfg)
		if err != nil {
			return nil, err
		}
	}

	tpOpts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
	if exporter != nil {
		tpOpts = append(tpOpts, sdktrace.WithBatcher(exporter))
	}
	for _, proc := range builder.spanProcessors {
		tpOpts = append(tpOpts, sdktrace.WithSpanProcessor(proc))
	}

	tp := sdktrace.NewTracerProvider(tpOpts...)
	return &manager{tracer: tp.Tracer(tracerName), provider: tp}, nil
}

func (m *manager) StartQuery(ctx context.Context, info QueryStart) (context.Context, QuerySpan) {
	ctx, span := m.tracer.Start(
		ctx,
		"mention.search",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("mentionpad.source", sourceOrDefault(info.Source)),
			attribute.Int("mentionpad.query.length", len([]rune(info.Query))),
		),
	)
	return ctx, &querySpan{span: span}
}

func (m *manager) StartSubmit(ctx context.Context, info SubmitStart) (context.Context, SubmitSpan) {
	ctx, span := m.tracer.Start(
		ctx,
		"message.submit",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("mentionpad.source", sourceOrDefault(info.Source)),
			attribute.Int("mentionpad.message.length", info.Length),
			attribute.Int("mentionpad.message.mentions", info.Mentions),
		),
	)
	return ctx, &submitSpan{span: span}
}

func (m *manager) Shutdown(ctx context.Context) error {
	if m == nil || m.provider == nil {
		return nil
	}
	var shutdownErr error
	m.shutdown.Do(func() {
		shutdownErr = m.provider.Shutdown(ctx)
	})
	return shutdownErr
}

type querySpan struct {
	span trace.Span
}

func (qs *querySpan) End(result QueryResult) {
	if qs == nil || qs.span == nil {
		return
	}
	qs.span.SetAttributes(attribute.Int("mentionpad.query.results", result.Count))
	endSpan(qs.span, result.Err)
}

type submitSpan struct {
	span trace.Span
}

func (ss *submitSpan) End(err error) {
	if ss == nil || ss.span == nil {
		return
	}
	endSpan(ss.span, err)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String("mentionpad.error.code", string(errdef.CodeOf(err))))
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "OK")
	}
	span.End()
}

// CountMentions is the mention count recorded on submit spans.
func CountMentions(message string) int {
	return len(mention.Names(message))
}

func Noop() Instrumenter {
	return noopInstrumenter{}
}

type noopInstrumenter struct{}

type noopQuerySpan struct{}

type noopSubmitSpan struct{}

func (noopInstrumenter) StartQuery(ctx context.Context, _ QueryStart) (context.Context, QuerySpan) {
	return ctx, noopQuerySpan{}
}

func (noopInstrumenter) StartSubmit(ctx context.Context, _ SubmitStart) (context.Context, SubmitSpan) {
	return ctx, noopSubmitSpan{}
}

func (noopInstrumenter) Shutdown(context.Context) error { return nil }

func (noopQuerySpan) End(QueryResult) {}

func (noopSubmitSpan) End(error) {}

func newExporter(cfg Config) (sdktrace.SpanExporter, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, errdef.New(errdef.CodeConfig, "telemetry endpoint is required")
	}

	timeout := cfg.DialTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	clientOpts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		clientOpts = append(clientOpts, otlptracegrpc.WithInsecure())
	}
	if len(cfg.Headers) > 0 {
		clientOpts = append(clientOpts, otlptracegrpc.WithHeaders(cfg.Headers))
	}

	client := otlptracegrpc.NewClient(clientOpts...)
	exp, err := otlptrace.New(ctx, client)
	if err != nil {
		return nil, errdef.Wrap(errdef.CodeConfig, err, "telemetry exporter")
	}
	return exp, nil
}

func buildResourceAttributes(cfg Config) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		semconv.ServiceName(cfg.ServiceName),
	}
	if strings.TrimSpace(cfg.Version) != "" {
		attrs = append(attrs, semconv.ServiceVersion(cfg.Version))
	}
	return attrs
}

func sourceOrDefault(source string) string {
	if s := strings.TrimSpace(source); s != "" {
		return s
	}
	return "local"
}
