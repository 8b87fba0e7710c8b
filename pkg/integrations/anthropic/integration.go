// Package anthropic tags spans of Anthropic Messages API calls for LLM
// observability. Request and response payloads may be maps or typed SDK
// structs, see package attr.
package anthropic

import (
	"fmt"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/llmobs/pkg/attr"
	"github.com/go-go-golems/llmobs/pkg/config"
	"github.com/go-go-golems/llmobs/pkg/llmobs"
	"github.com/go-go-golems/llmobs/pkg/spans"
)

type Integration struct {
	logger  zerolog.Logger
	enabled atomic.Bool
}

type Option func(*Integration)

func WithLogger(logger zerolog.Logger) Option {
	return func(i *Integration) {
		i.logger = logger
	}
}

func WithLLMObsEnabled(enabled bool) Option {
	return func(i *Integration) {
		i.enabled.Store(enabled)
	}
}

// WithSettings applies the enablement flag from loaded settings.
func WithSettings(s *config.Settings) Option {
	return func(i *Integration) {
		if s != nil {
			i.enabled.Store(s.Enabled)
		}
	}
}

func NewIntegration(options ...Option) *Integration {
	ret := &Integration{
		logger: log.Logger,
	}
	for _, o := range options {
		o(ret)
	}
	ret.logger = ret.logger.With().Str("integration", Provider).Logger()
	return ret
}

func (i *Integration) LLMObsEnabled() bool {
	return i.enabled.Load()
}

func (i *Integration) SetLLMObsEnabled(enabled bool) {
	i.enabled.Store(enabled)
}

// SetBaseTags sets the identifying tags present on every Anthropic span,
// whether LLM observability is enabled or not. API keys of 4 characters or
// more are redacted down to their last 4.
func (i *Integration) SetBaseTags(span spans.Span, model *string, apiKey *string) {
	if model != nil {
		span.SetTag(ModelTag, *model)
	}
	if apiKey != nil {
		span.SetTag(APIKeyTag, RedactAPIKey(*apiKey))
	}
}

func RedactAPIKey(apiKey string) string {
	if len(apiKey) < 4 {
		return apiKey
	}
	return "sk-..." + apiKey[len(apiKey)-4:]
}

// GenerationParameters returns the generation knobs supplied on the call.
// Knobs that were not passed are left out, never defaulted.
func GenerationParameters(kwargs map[string]any) map[string]any {
	ret := map[string]any{}
	for _, k := range []string{ArgTemperature, ArgMaxTokens} {
		if v := attr.Get(kwargs, k, nil); v != nil {
			ret[k] = v
		}
	}
	return ret
}

// SetLLMObsTags extracts the prompt, completion and usage of a finished call
// and writes them as "_ml_obs.*" tags. resp is nil and/or err is set when the
// call failed. Nothing is written when LLM observability is disabled, and a
// failure while tagging is logged, never returned.
func (i *Integration) SetLLMObsTags(resp any, span spans.Span, kwargs map[string]any, err error) {
	if !i.LLMObsEnabled() {
		return
	}
	defer i.recoverTagging("llmobs_set_tags")

	parameters := GenerationParameters(kwargs)
	inputMessages := ExtractInputMessages(
		i.logger,
		attr.Get(kwargs, ArgMessages, nil),
		attr.Get(kwargs, ArgSystem, nil),
	)

	modelName, _ := span.GetTag(ModelTag)

	span.SetTag(llmobs.SpanKind, llmobs.SpanKindLLM)
	span.SetTag(llmobs.ModelName, modelName)
	i.setStructuredTag(span, llmobs.InputMessages, inputMessages)
	i.setStructuredTag(span, llmobs.Metadata, parameters)
	span.SetTag(llmobs.ModelProvider, Provider)

	if err != nil || attr.IsNil(resp) {
		i.setStructuredTag(span, llmobs.OutputMessages, []llmobs.Message{
			llmobs.NewMessage(llmobs.TextContent(""), nil),
		})
	} else {
		i.setStructuredTag(span, llmobs.OutputMessages, ExtractOutputMessages(resp))
	}

	metrics := CollectMetrics(span)
	if len(metrics) > 0 {
		i.setStructuredTag(span, llmobs.Metrics, metrics)
	}
}

// RecordUsage is the logger-carrying form of the package level RecordUsage.
func (i *Integration) RecordUsage(span spans.Span, usage any) {
	defer i.recoverTagging("record_usage")
	RecordUsage(i.logger, span, usage)
}

func (i *Integration) setStructuredTag(span spans.Span, key string, v any) {
	s, err := llmobs.Marshal(v)
	if err != nil {
		i.logger.Warn().Err(err).Str("tag", key).Msg("could not serialize tag")
		return
	}
	span.SetTag(key, s)
}

func (i *Integration) recoverTagging(step string) {
	r := recover()
	if r == nil {
		return
	}
	err, ok := r.(error)
	if !ok {
		err = errors.Errorf("%v", r)
	}
	i.logger.Warn().
		Err(err).
		Str("step", step).
		Str("stack", fmt.Sprintf("%+v", errors.WithStack(err))).
		Msg("recovered from panic while tagging span")
}
