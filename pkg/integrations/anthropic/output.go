package anthropic

import (
	"github.com/go-go-golems/llmobs/pkg/attr"
	"github.com/go-go-golems/llmobs/pkg/llmobs"
)

// ExtractOutputMessages turns a response's content into canonical output
// messages. Text blocks and tool calls are kept, any other block is dropped.
func ExtractOutputMessages(resp any) []llmobs.Message {
	ret := []llmobs.Message{}
	content := attr.Get(resp, "content", nil)
	role := renderValue(attr.Get(resp, "role", ""))

	if s, ok := attr.String(content); ok {
		return append(ret, llmobs.NewTextMessage(s, role))
	}
	if !attr.IsList(content) {
		return ret
	}

	for _, completion := range attr.Items(content) {
		if text, ok := attr.String(attr.Get(completion, "text", nil)); ok {
			ret = append(ret, llmobs.NewTextMessage(text, role))
			continue
		}
		if typ, _ := attr.String(attr.Get(completion, "type", nil)); typ == blockTypeToolUse {
			name := renderValue(attr.Get(completion, "name", ""))
			input := attr.Get(completion, "input", "")
			ret = append(ret, llmobs.NewTextMessage(renderToolUse(name, input), role))
		}
	}

	return ret
}
