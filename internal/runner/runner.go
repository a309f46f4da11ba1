package runner

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/aescanero/scenario/internal/models"
	"github.com/aescanero/scenario/internal/params"
	"github.com/aescanero/scenario/internal/protocol"
	"github.com/aescanero/scenario/internal/tracing"
)

// Metrics receives invocation measurements
type Metrics interface {
	RecordInvocation(model, status string)
	ObserveCompute(model string, duration time.Duration)
	IncEventsEmitted(model, kind string)
	AddParameterOverrides(model string, count int)
	IncInputFallbacks(model string)
}

// Status represents the phase an invocation reached
type Status string

const (
	StatusResolving Status = "resolving"
	StatusStreaming Status = "streaming"
	StatusComputing Status = "computing"
	StatusEmitting  Status = "emitting"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Report summarizes one invocation
type Report struct {
	ID        string
	Model     string
	Mode      protocol.Mode
	Status    Status
	Overrides int
	Fallback  bool
	Ignored   []string
	Records   int
	Duration  time.Duration
}

// Runner executes one worker invocation: resolve parameters, compute, emit
type Runner struct {
	logger  *zap.Logger
	metrics Metrics
	tracer  trace.Tracer
	pace    func(time.Duration) time.Duration
	sleep   func(time.Duration)
}

// Option configures a Runner
type Option func(*Runner)

// WithMetrics records measurements in m
func WithMetrics(m Metrics) Option {
	return func(r *Runner) {
		r.metrics = m
	}
}

// WithTracer creates spans with t
func WithTracer(t trace.Tracer) Option {
	return func(r *Runner) {
		r.tracer = t
	}
}

// WithPacing scales each stage pause through fn; returning zero skips it
func WithPacing(fn func(time.Duration) time.Duration) Option {
	return func(r *Runner) {
		r.pace = fn
	}
}

// WithSleeper replaces time.Sleep for stage pauses
func WithSleeper(fn func(time.Duration)) Option {
	return func(r *Runner) {
		r.sleep = fn
	}
}

// New creates a runner
func New(logger *zap.Logger, opts ...Option) *Runner {
	r := &Runner{
		logger:  logger,
		metrics: noopMetrics{},
		tracer:  noop.NewTracerProvider().Tracer("noop"),
		pace:    func(d time.Duration) time.Duration { return d },
		sleep:   time.Sleep,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run reads the whole of in, resolves it against the model's defaults,
// computes the result and writes it to sink. Streaming models emit their
// stages first. Any error is fatal for the invocation; nothing is retried.
func (r *Runner) Run(ctx context.Context, m models.Model, in io.Reader, sink protocol.Sink) (Report, error) {
	info := m.Info()
	report := Report{
		ID:     uuid.New().String(),
		Model:  info.Name,
		Mode:   info.Mode,
		Status: StatusResolving,
	}
	startTime := time.Now()

	logger := r.logger.With(
		zap.String("invocation_id", report.ID),
		zap.String("model", info.Name),
		zap.String("mode", info.Mode.String()))

	ctx, span := r.tracer.Start(ctx, tracing.SpanInvocation, trace.WithAttributes(
		tracing.AttrInvocationID.String(report.ID),
		tracing.AttrModel.String(info.Name),
		tracing.AttrMode.String(info.Mode.String()),
	))
	defer span.End()

	fail := func(err error) (Report, error) {
		report.Duration = time.Since(startTime)
		logger.Error("invocation failed",
			zap.String("status", string(report.Status)),
			zap.Int("records_written", report.Records),
			zap.Duration("duration", report.Duration),
			zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.metrics.RecordInvocation(info.Name, string(StatusFailed))
		report.Status = StatusFailed
		return report, err
	}

	// Resolve parameters
	set, err := r.resolve(ctx, info, in, &report, logger)
	if err != nil {
		return fail(err)
	}

	emitter := protocol.NewEmitter(sink, info.Mode, protocol.WithObserver(func(k protocol.Kind) {
		report.Records++
		r.metrics.IncEventsEmitted(info.Name, string(k))
	}))

	// Streaming models report progress before the result
	if info.Mode == protocol.ModeStreaming {
		report.Status = StatusStreaming
		if err := r.stream(ctx, m, emitter, logger); err != nil {
			return fail(err)
		}
	}

	report.Status = StatusComputing
	output, err := r.compute(ctx, m, set)
	if err != nil {
		return fail(fmt.Errorf("compute %s: %w", info.Name, err))
	}

	report.Status = StatusEmitting
	if err := r.finish(ctx, emitter, output); err != nil {
		return fail(err)
	}

	report.Status = StatusCompleted
	report.Duration = time.Since(startTime)
	r.metrics.RecordInvocation(info.Name, "ok")
	span.SetAttributes(tracing.AttrRecords.Int(report.Records))

	logger.Info("invocation completed",
		zap.String("headline", output.Title()),
		zap.Int("records_written", report.Records),
		zap.Duration("duration", report.Duration))

	return report, nil
}

func (r *Runner) resolve(ctx context.Context, info models.Info, in io.Reader, report *Report, logger *zap.Logger) (params.Set, error) {
	_, span := r.tracer.Start(ctx, tracing.SpanResolve)
	defer span.End()

	res, err := params.ResolveReader(info.Defaults, in)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return params.Set{}, err
	}

	report.Overrides = res.Set.Overrides()
	report.Fallback = res.Fallback
	report.Ignored = res.Ignored

	if res.Fallback {
		logger.Debug("input empty or malformed, using defaults")
		r.metrics.IncInputFallbacks(info.Name)
	}
	if len(res.Ignored) > 0 {
		logger.Debug("ignoring unknown parameters", zap.Strings("keys", res.Ignored))
	}
	r.metrics.AddParameterOverrides(info.Name, report.Overrides)

	logger.Debug("parameters resolved",
		zap.Int("overrides", report.Overrides),
		zap.Any("parameters", res.Set.Map()))

	span.SetAttributes(
		tracing.AttrOverrides.Int(report.Overrides),
		tracing.AttrFallback.Bool(res.Fallback),
	)
	return res.Set, nil
}

func (r *Runner) stream(ctx context.Context, m models.Model, emitter *protocol.Emitter, logger *zap.Logger) error {
	streamer, ok := m.(models.Streamer)
	if !ok {
		return nil
	}

	for _, stage := range streamer.Stages() {
		_, span := r.tracer.Start(ctx, tracing.SpanEmit, trace.WithAttributes(
			tracing.AttrEventKind.String(string(stage.Kind)),
		))
		err := emitter.Emit(stage.Kind, stage.Message)
		span.End()
		if err != nil {
			return fmt.Errorf("emit %s: %w", stage.Kind, err)
		}

		logger.Debug("stage emitted",
			zap.String("kind", string(stage.Kind)),
			zap.String("message", stage.Message))

		if d := r.pace(stage.Pause); d > 0 {
			r.sleep(d)
		}
	}
	return nil
}

func (r *Runner) compute(ctx context.Context, m models.Model, set params.Set) (models.Output, error) {
	name := m.Info().Name
	_, span := r.tracer.Start(ctx, tracing.SpanCompute)
	defer span.End()

	start := time.Now()
	output, err := m.Compute(set)
	r.metrics.ObserveCompute(name, time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return output, nil
}

func (r *Runner) finish(ctx context.Context, emitter *protocol.Emitter, output models.Output) error {
	_, span := r.tracer.Start(ctx, tracing.SpanEmit, trace.WithAttributes(
		tracing.AttrEventKind.String(string(protocol.KindResult)),
	))
	defer span.End()

	if err := emitter.Finish(output); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("emit result: %w", err)
	}
	return nil
}

type noopMetrics struct{}

func (noopMetrics) RecordInvocation(string, string)      {}
func (noopMetrics) ObserveCompute(string, time.Duration) {}
func (noopMetrics) IncEventsEmitted(string, string)      {}
func (noopMetrics) AddParameterOverrides(string, int)    {}
func (noopMetrics) IncInputFallbacks(string)             {}
