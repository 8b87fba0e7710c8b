package anthropic

import (
	"github.com/go-go-golems/llmobs/pkg/attr"
	"github.com/go-go-golems/llmobs/pkg/spans"
)

// Call performs the instrumented Messages API request.
type Call func() (any, error)

// Trace runs call and tags span around it: base tags first, then the call, the
// error traceback if it failed, usage metrics from resp.usage and finally the
// LLM observability tags. The call's own result and error are returned
// unchanged.
func (i *Integration) Trace(span spans.Span, kwargs map[string]any, apiKey *string, call Call) (any, error) {
	var model *string
	if m, ok := attr.String(attr.Get(kwargs, ArgModel, nil)); ok {
		model = &m
	}
	i.SetBaseTags(span, model, apiKey)

	resp, err := call()
	if err != nil {
		span.SetTraceback(err)
	} else if !attr.IsNil(resp) {
		i.RecordUsage(span, attr.Get(resp, "usage", nil))
	}

	i.SetLLMObsTags(resp, span, kwargs, err)
	return resp, err
}
