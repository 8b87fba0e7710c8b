package anthropic

const (
	Provider = "anthropic"

	ModelTag  = "anthropic.request.model"
	APIKeyTag = "anthropic.request.api_key"

	InputTokensMetric  = "anthropic.response.usage.input_tokens"
	OutputTokensMetric = "anthropic.response.usage.output_tokens"
	TotalTokensMetric  = "anthropic.response.usage.total_tokens"
)

// Call argument keys read by the integration.
const (
	ArgModel       = "model"
	ArgMessages    = "messages"
	ArgSystem      = "system"
	ArgTemperature = "temperature"
	ArgMaxTokens   = "max_tokens"
)

const (
	blockTypeText       = "text"
	blockTypeImage      = "image"
	blockTypeToolUse    = "tool_use"
	blockTypeToolResult = "tool_result"
)
