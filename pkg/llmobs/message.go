package llmobs

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

// Content is the content of a canonical message. It is usually a single
// string; multi-part tool results carry an ordered list of strings instead.
type Content struct {
	text  string
	parts []string
	list  bool
}

func TextContent(text string) Content {
	return Content{text: text}
}

// ListContent builds list-typed content. A nil parts slice still yields a
// list, serialized as [].
func ListContent(parts []string) Content {
	cp := make([]string, len(parts))
	copy(cp, parts)
	return Content{parts: cp, list: true}
}

func (c Content) IsList() bool {
	return c.list
}

// Text returns the string content. It is empty for list content.
func (c Content) Text() string {
	return c.text
}

// Parts returns a copy of the list content, or nil for string content.
func (c Content) Parts() []string {
	if !c.list {
		return nil
	}
	cp := make([]string, len(c.parts))
	copy(cp, c.parts)
	return cp
}

func (c Content) MarshalJSON() ([]byte, error) {
	if c.list {
		if c.parts == nil {
			return []byte("[]"), nil
		}
		return marshalNoEscape(c.parts)
	}
	return marshalNoEscape(c.text)
}

// marshalNoEscape keeps <, > and & verbatim in message text.
func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func (c *Content) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		var parts []string
		if err := json.Unmarshal(b, &parts); err != nil {
			return errors.Wrap(err, "decoding list content")
		}
		*c = ListContent(parts)
		return nil
	}
	if bytes.Equal(b, []byte("null")) {
		*c = Content{}
		return nil
	}
	var text string
	if err := json.Unmarshal(b, &text); err != nil {
		return errors.Wrap(err, "decoding text content")
	}
	*c = TextContent(text)
	return nil
}

// Message is the canonical {content, role} record attached to a span. A nil
// Role means the source payload carried none, and the key is left out.
type Message struct {
	Content Content `json:"content"`
	Role    *string `json:"role,omitempty"`
}

func NewMessage(content Content, role *string) Message {
	return Message{Content: content, Role: role}
}

func NewTextMessage(text string, role string) Message {
	return Message{Content: TextContent(text), Role: &role}
}

// RoleString returns the role, or "" when none was set.
func (m Message) RoleString() string {
	if m.Role == nil {
		return ""
	}
	return *m.Role
}
