// Package llmobs holds the provider independent part of LLM observability:
// the canonical span tag keys, the canonical message record and its
// serialization.
package llmobs

// Canonical span tags, written as temporary "_ml_obs.*" tags and picked up by
// the LLM observability writer.
const (
	SpanKind       = "_ml_obs.meta.span.kind"
	ModelName      = "_ml_obs.meta.model_name"
	ModelProvider  = "_ml_obs.meta.model_provider"
	InputMessages  = "_ml_obs.meta.input.messages"
	OutputMessages = "_ml_obs.meta.output.messages"
	Metadata       = "_ml_obs.meta.metadata"
	Metrics        = "_ml_obs.metrics"
)

// MLApp names the application a span belongs to. It is set by whoever opens
// the span, not by provider integrations.
const MLApp = "_ml_obs.meta.ml_app"

// Canonical metric names inside the Metrics tag.
const (
	InputTokensMetricKey  = "prompt_tokens"
	OutputTokensMetricKey = "completion_tokens"
	TotalTokensMetricKey  = "total_tokens"
)

const SpanKindLLM = "llm"

// ImagePlaceholder replaces image payloads so binary data never reaches a span.
const ImagePlaceholder = "([IMAGE DETECTED])"
