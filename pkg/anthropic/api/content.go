// Package api holds typed Anthropic Messages API payloads, as an SDK would
// hand them to an instrumented call.
package api

import (
	"encoding/json"

	"github.com/pkg/errors"
)

type ContentType string

const (
	ContentTypeText       ContentType = "text"
	ContentTypeImage      ContentType = "image"
	ContentTypeToolUse    ContentType = "tool_use"
	ContentTypeToolResult ContentType = "tool_result"
)

type Content interface {
	Type() ContentType
}

type BaseContent struct {
	Type_ ContentType `json:"type"`
}

type TextContent struct {
	BaseContent
	Text string `json:"text"`
}

func (t TextContent) Type() ContentType {
	return ContentTypeText
}

type ImageContent struct {
	BaseContent
	Source ImageSource `json:"source"`
}

func (i ImageContent) Type() ContentType {
	return ContentTypeImage
}

type ImageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type ToolUseContent struct {
	BaseContent
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Input json.RawMessage `json:"input"`
}

func (t ToolUseContent) Type() ContentType {
	return ContentTypeToolUse
}

// ToolResultContent carries either a string or a []Content in Content.
type ToolResultContent struct {
	BaseContent
	ToolUseID string `json:"tool_use_id"`
	Content   any    `json:"content"`
	IsError   bool   `json:"is_error,omitempty"`
}

func (t ToolResultContent) Type() ContentType {
	return ContentTypeToolResult
}

// UnknownContent keeps blocks of a type this package does not model.
type UnknownContent struct {
	BaseContent
	Raw json.RawMessage `json:"-"`
}

func (u UnknownContent) Type() ContentType {
	return u.Type_
}

func (u UnknownContent) MarshalJSON() ([]byte, error) {
	if len(u.Raw) == 0 {
		return json.Marshal(u.BaseContent)
	}
	return u.Raw, nil
}

func NewTextContent(text string) Content {
	return TextContent{BaseContent: BaseContent{Type_: ContentTypeText}, Text: text}
}

func NewImageContent(mediaType, base64Data string) Content {
	return ImageContent{
		BaseContent: BaseContent{
			Type_: ContentTypeImage,
		},
		Source: ImageSource{
			Type:      "base64",
			MediaType: mediaType,
			Data:      base64Data,
		},
	}
}

func NewToolUseContent(toolID, toolName string, toolInput json.RawMessage) Content {
	return ToolUseContent{
		BaseContent: BaseContent{Type_: ContentTypeToolUse},
		ID:          toolID,
		Name:        toolName,
		Input:       toolInput,
	}
}

func NewToolResultContent(toolUseID string, content any) Content {
	return ToolResultContent{
		BaseContent: BaseContent{Type_: ContentTypeToolResult},
		ToolUseID:   toolUseID,
		Content:     content,
	}
}

// UnmarshalContent decodes a single content block, dispatching on its type.
func UnmarshalContent(raw json.RawMessage) (Content, error) {
	var base BaseContent
	if err := json.Unmarshal(raw, &base); err != nil {
		return nil, errors.Wrap(err, "decoding content type")
	}

	switch base.Type_ {
	case ContentTypeText:
		var c TextContent
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, errors.Wrap(err, "decoding text content")
		}
		return c, nil
	case ContentTypeImage:
		var c ImageContent
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, errors.Wrap(err, "decoding image content")
		}
		return c, nil
	case ContentTypeToolUse:
		var c ToolUseContent
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, errors.Wrap(err, "decoding tool_use content")
		}
		return c, nil
	case ContentTypeToolResult:
		var c struct {
			BaseContent
			ToolUseID string          `json:"tool_use_id"`
			Content   json.RawMessage `json:"content"`
			IsError   bool            `json:"is_error,omitempty"`
		}
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, errors.Wrap(err, "decoding tool_result content")
		}
		body, err := unmarshalToolResultBody(c.Content)
		if err != nil {
			return nil, err
		}
		return ToolResultContent{
			BaseContent: c.BaseContent,
			ToolUseID:   c.ToolUseID,
			Content:     body,
			IsError:     c.IsError,
		}, nil
	default:
		return UnknownContent{BaseContent: base, Raw: append(json.RawMessage(nil), raw...)}, nil
	}
}

// UnmarshalContentList decodes an array of content blocks.
func UnmarshalContentList(raw json.RawMessage) ([]Content, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(raw, &raws); err != nil {
		return nil, errors.Wrap(err, "decoding content list")
	}
	ret := make([]Content, 0, len(raws))
	for i, r := range raws {
		c, err := UnmarshalContent(r)
		if err != nil {
			return nil, errors.Wrapf(err, "content block %d", i)
		}
		ret = append(ret, c)
	}
	return ret, nil
}

func unmarshalToolResultBody(raw json.RawMessage) (any, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, errors.Wrap(err, "decoding tool_result text")
		}
		return s, nil
	}
	return UnmarshalContentList(raw)
}
