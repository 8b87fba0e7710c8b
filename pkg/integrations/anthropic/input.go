package anthropic

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/go-go-golems/llmobs/pkg/attr"
	"github.com/go-go-golems/llmobs/pkg/llmobs"
)

const roleSystem = "system"

// ExtractInputMessages flattens the system prompt and the request messages into
// canonical input messages. Anthropic allows several content blocks per
// message, each block becomes its own record. Malformed messages are logged
// and skipped, this never fails.
func ExtractInputMessages(logger zerolog.Logger, messages any, system any) []llmobs.Message {
	ret := []llmobs.Message{}

	if system != nil {
		role := roleSystem
		ret = append(ret, llmobs.NewMessage(systemContent(system), &role))
	}

	if !attr.IsList(messages) {
		logger.Warn().
			Str("provider", Provider).
			Str("type", typeName(messages)).
			Msg("Anthropic input must be a list of messages.")
		return ret
	}

	for idx, message := range attr.Items(messages) {
		if !attr.IsMapLike(message) {
			logger.Warn().
				Str("provider", Provider).
				Int("index", idx).
				Str("type", typeName(message)).
				Msg("Anthropic message input must be a list of message param dicts.")
			continue
		}

		content := attr.Get(message, "content", nil)
		rawRole := attr.Get(message, "role", nil)
		if content == nil || rawRole == nil {
			logger.Warn().
				Str("provider", Provider).
				Int("index", idx).
				Bool("has_content", content != nil).
				Bool("has_role", rawRole != nil).
				Msg("Anthropic input message must have content and role.")
		}

		var role *string
		if rawRole != nil {
			r := renderValue(rawRole)
			role = &r
		}

		if s, ok := attr.String(content); ok {
			ret = append(ret, llmobs.NewMessage(llmobs.TextContent(s), role))
			continue
		}
		if !attr.IsList(content) {
			continue
		}
		for _, raw := range attr.Items(content) {
			if c, ok := ParseBlock(raw).Content(); ok {
				ret = append(ret, llmobs.NewMessage(c, role))
			}
		}
	}

	return ret
}

// systemContent accepts the plain string form of the system prompt as well as
// the list-of-text-blocks form.
func systemContent(system any) llmobs.Content {
	if s, ok := attr.String(system); ok {
		return llmobs.TextContent(s)
	}
	if attr.IsList(system) {
		return llmobs.ListContent(scanParts(attr.Items(system)))
	}
	return llmobs.TextContent(renderValue(system))
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}
