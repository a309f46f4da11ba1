package tracing

import "go.opentelemetry.io/otel/attribute"

// Span names.
const (
	SpanInvocation = "scenario.invocation"
	SpanResolve    = "params.resolve"
	SpanCompute    = "model.compute"
	SpanEmit       = "protocol.emit"
)

// Attribute keys.
const (
	AttrModel        = attribute.Key("scenario.model")
	AttrMode         = attribute.Key("scenario.mode")
	AttrInvocationID = attribute.Key("scenario.invocation_id")
	AttrOverrides    = attribute.Key("scenario.parameter_overrides")
	AttrFallback     = attribute.Key("scenario.input_fallback")
	AttrEventKind    = attribute.Key("scenario.event_kind")
	AttrRecords      = attribute.Key("scenario.records_written")
)
