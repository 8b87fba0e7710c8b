package anthropic

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cast"

	"github.com/go-go-golems/llmobs/pkg/attr"
	"github.com/go-go-golems/llmobs/pkg/llmobs"
	"github.com/go-go-golems/llmobs/pkg/spans"
)

// RecordUsage writes the token counts of a response's usage block as span
// metrics. Only counts present in usage are written, the total only when both
// input and output are known.
func RecordUsage(logger zerolog.Logger, span spans.Span, usage any) {
	if attr.IsEmpty(usage) {
		return
	}

	inputTokens, hasInput := tokenCount(logger, usage, "input_tokens")
	outputTokens, hasOutput := tokenCount(logger, usage, "output_tokens")

	if hasInput {
		span.SetMetric(InputTokensMetric, inputTokens)
	}
	if hasOutput {
		span.SetMetric(OutputTokensMetric, outputTokens)
	}
	if hasInput && hasOutput {
		span.SetMetric(TotalTokensMetric, inputTokens+outputTokens)
	}
}

func tokenCount(logger zerolog.Logger, usage any, field string) (float64, bool) {
	v := attr.Get(usage, field, nil)
	if v == nil {
		return 0, false
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		logger.Warn().
			Err(err).
			Str("provider", Provider).
			Str("field", field).
			Msg("ignoring non-numeric token count")
		return 0, false
	}
	return f, true
}

// CollectMetrics reads the token metrics back from the span, whoever wrote
// them, and returns them under the canonical metric names.
func CollectMetrics(span spans.Span) map[string]float64 {
	ret := map[string]float64{}
	for _, m := range []struct{ from, to string }{
		{InputTokensMetric, llmobs.InputTokensMetricKey},
		{OutputTokensMetric, llmobs.OutputTokensMetricKey},
		{TotalTokensMetric, llmobs.TotalTokensMetricKey},
	} {
		if v, ok := span.GetMetric(m.from); ok {
			ret[m.to] = v
		}
	}
	return ret
}
