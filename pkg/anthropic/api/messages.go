package api

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// MessageResponse represents the Messages API response payload.
type MessageResponse struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	Role         string    `json:"role"`
	Content      []Content `json:"content"`
	Model        string    `json:"model"`
	StopReason   string    `json:"stop_reason,omitempty"`
	StopSequence string    `json:"stop_sequence,omitempty"`
	Usage        *Usage    `json:"usage,omitempty"`
}

func (m *MessageResponse) UnmarshalJSON(b []byte) error {
	type alias MessageResponse
	var aux struct {
		alias
		Content json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return errors.Wrap(err, "decoding message response")
	}
	*m = MessageResponse(aux.alias)
	m.Content = nil
	if len(aux.Content) == 0 || string(aux.Content) == "null" {
		return nil
	}
	content, err := UnmarshalContentList(aux.Content)
	if err != nil {
		return err
	}
	m.Content = content
	return nil
}

// Usage is the token accounting block of a response.
type Usage struct {
	InputTokens              int  `json:"input_tokens"`
	OutputTokens             int  `json:"output_tokens"`
	CacheCreationInputTokens *int `json:"cache_creation_input_tokens,omitempty"`
	CacheReadInputTokens     *int `json:"cache_read_input_tokens,omitempty"`
}
