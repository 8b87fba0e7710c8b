package api

import (
	"encoding/json"
	"reflect"
	"testing"
)

const messageResponseJSON = `{
  "id": "msg_123",
  "type": "message",
  "role": "assistant",
  "model": "claude-3-opus-20240229",
  "content": [
    {"type": "text", "text": "Let me check."},
    {"type": "tool_use", "id": "toolu_1", "name": "calculator", "input": {"operation": "add", "numbers": [1, 2]}},
    {"type": "thinking", "thinking": "hmm"}
  ],
  "stop_reason": "tool_use",
  "usage": {"input_tokens": 10, "output_tokens": 5}
}`

func TestMessageResponseDeserialization(t *testing.T) {
	var resp MessageResponse
	if err := json.Unmarshal([]byte(messageResponseJSON), &resp); err != nil {
		t.Fatalf("Failed to unmarshal MessageResponse: %v", err)
	}

	if resp.Role != "assistant" || resp.Model != "claude-3-opus-20240229" {
		t.Errorf("unexpected header fields: %+v", resp)
	}
	if resp.Usage == nil || resp.Usage.InputTokens != 10 || resp.Usage.OutputTokens != 5 {
		t.Errorf("unexpected usage: %+v", resp.Usage)
	}
	if len(resp.Content) != 3 {
		t.Fatalf("expected 3 content blocks, got %d", len(resp.Content))
	}

	text, ok := resp.Content[0].(TextContent)
	if !ok || text.Text != "Let me check." {
		t.Errorf("unexpected first block: %#v", resp.Content[0])
	}

	toolUse, ok := resp.Content[1].(ToolUseContent)
	if !ok {
		t.Fatalf("unexpected second block: %#v", resp.Content[1])
	}
	if toolUse.Name != "calculator" || string(toolUse.Input) != `{"operation": "add", "numbers": [1, 2]}` {
		t.Errorf("unexpected tool use: %#v", toolUse)
	}

	unknown, ok := resp.Content[2].(UnknownContent)
	if !ok || unknown.Type() != "thinking" {
		t.Fatalf("unexpected third block: %#v", resp.Content[2])
	}
	b, err := json.Marshal(unknown)
	if err != nil {
		t.Fatalf("Failed to marshal unknown content: %v", err)
	}
	if string(b) != `{"type":"thinking","thinking":"hmm"}` {
		t.Errorf("unknown content should marshal to its raw form, got %s", b)
	}
}

func TestUnmarshalToolResult(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Content
	}{
		{
			name:     "string body",
			input:    `{"type":"tool_result","tool_use_id":"toolu_1","content":"3"}`,
			expected: NewToolResultContent("toolu_1", "3"),
		},
		{
			name:  "block body",
			input: `{"type":"tool_result","tool_use_id":"toolu_1","content":[{"type":"text","text":"3"},{"type":"image","source":{"type":"base64","media_type":"image/png","data":"AAAA"}}]}`,
			expected: NewToolResultContent("toolu_1", []Content{
				NewTextContent("3"),
				NewImageContent("image/png", "AAAA"),
			}),
		},
		{
			name:     "no body",
			input:    `{"type":"tool_result","tool_use_id":"toolu_1"}`,
			expected: NewToolResultContent("toolu_1", nil),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UnmarshalContent(json.RawMessage(tt.input))
			if err != nil {
				t.Fatalf("Failed to unmarshal: %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Expected %#v, got %#v", tt.expected, got)
			}
		})
	}
}

func TestUnmarshalContentErrors(t *testing.T) {
	if _, err := UnmarshalContent(json.RawMessage(`"text"`)); err == nil {
		t.Errorf("expected an error for a non-object block")
	}
	if _, err := UnmarshalContentList(json.RawMessage(`[{"type":"text","text":1}]`)); err == nil {
		t.Errorf("expected an error for a badly typed text block")
	}
}
