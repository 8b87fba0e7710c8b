package llmobs

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

// Marshal serializes a structured tag value into the single string form span
// tags accept. Map keys come out sorted, so equal inputs give identical tags.
func Marshal(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", errors.Wrap(err, "serializing tag value")
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// UnmarshalMessages decodes a serialized input or output messages tag.
func UnmarshalMessages(s string) ([]Message, error) {
	var ret []Message
	if err := json.Unmarshal([]byte(s), &ret); err != nil {
		return nil, errors.Wrap(err, "decoding messages")
	}
	return ret, nil
}
