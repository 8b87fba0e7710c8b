package anthropic

import (
	"fmt"

	"github.com/go-go-golems/llmobs/pkg/attr"
	"github.com/go-go-golems/llmobs/pkg/llmobs"
)

// Block is one content block of a request message. Blocks of a type not listed
// here parse to UnknownBlock.
type Block interface {
	// Content renders the block for a canonical message. ok is false when the
	// block contributes no record.
	Content() (c llmobs.Content, ok bool)
	isBlock()
}

type TextBlock struct {
	Text string
}

type ImageBlock struct{}

type ToolUseBlock struct {
	Name  string
	Input any
}

type ToolResultShape int

const (
	// ToolResultNone is a tool result whose body is neither a string nor a list.
	ToolResultNone ToolResultShape = iota
	ToolResultText
	ToolResultParts
)

type ToolResultBlock struct {
	Shape ToolResultShape
	Text  string
	Parts []string
}

type UnknownBlock struct {
	Raw string
}

func (TextBlock) isBlock()       {}
func (ImageBlock) isBlock()      {}
func (ToolUseBlock) isBlock()    {}
func (ToolResultBlock) isBlock() {}
func (UnknownBlock) isBlock()    {}

func (b TextBlock) Content() (llmobs.Content, bool) {
	return llmobs.TextContent(b.Text), true
}

func (ImageBlock) Content() (llmobs.Content, bool) {
	return llmobs.TextContent(llmobs.ImagePlaceholder), true
}

func (b ToolUseBlock) Content() (llmobs.Content, bool) {
	return llmobs.TextContent(renderToolUse(b.Name, b.Input)), true
}

func (b ToolResultBlock) Content() (llmobs.Content, bool) {
	switch b.Shape {
	case ToolResultText:
		return llmobs.TextContent(fmt.Sprintf("[tool result: %s]", b.Text)), true
	case ToolResultParts:
		return llmobs.ListContent(b.Parts), true
	default:
		return llmobs.Content{}, false
	}
}

func (b UnknownBlock) Content() (llmobs.Content, bool) {
	return llmobs.TextContent(b.Raw), true
}

// ParseBlock classifies a raw content block by its type field.
func ParseBlock(v any) Block {
	typ, _ := attr.String(attr.Get(v, "type", nil))

	switch typ {
	case blockTypeText:
		return TextBlock{Text: renderValue(attr.Get(v, "text", ""))}
	case blockTypeImage:
		return ImageBlock{}
	case blockTypeToolUse:
		return ToolUseBlock{
			Name:  renderValue(attr.Get(v, "name", "")),
			Input: attr.Get(v, "input", ""),
		}
	case blockTypeToolResult:
		return parseToolResult(attr.Get(v, "content", nil))
	default:
		return UnknownBlock{Raw: renderValue(v)}
	}
}

func parseToolResult(body any) ToolResultBlock {
	if s, ok := attr.String(body); ok {
		return ToolResultBlock{Shape: ToolResultText, Text: s}
	}
	if !attr.IsList(body) {
		return ToolResultBlock{Shape: ToolResultNone}
	}
	return ToolResultBlock{Shape: ToolResultParts, Parts: scanParts(attr.Items(body))}
}

// scanParts keeps the non-empty text of each sub-block and a placeholder for
// images. Sub-blocks with neither contribute nothing.
func scanParts(items []any) []string {
	parts := []string{}
	for _, item := range items {
		if text, ok := attr.String(attr.Get(item, "text", "")); ok && text != "" {
			parts = append(parts, text)
			continue
		}
		if typ, _ := attr.String(attr.Get(item, "type", nil)); typ == blockTypeImage {
			parts = append(parts, llmobs.ImagePlaceholder)
		}
	}
	return parts
}

func renderToolUse(name string, input any) string {
	return fmt.Sprintf("[tool: %s]\n\n%s", name, serializeValue(input))
}

// serializeValue renders a structured value in compact JSON, falling back to
// fmt formatting for values JSON cannot represent.
func serializeValue(v any) string {
	s, err := llmobs.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return s
}

// renderValue is serializeValue, except that strings are kept verbatim.
func renderValue(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := attr.String(v); ok {
		return s
	}
	return serializeValue(v)
}
