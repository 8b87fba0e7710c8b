package llmobs

import (
	"encoding/json"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
	"github.com/xeipuuv/gojsonschema"
)

const schemaDraft = "http://json-schema.org/draft-07/schema#"

func (Content) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		OneOf: []*jsonschema.Schema{
			{Type: "string"},
			{Type: "array", Items: &jsonschema.Schema{Type: "string"}},
		},
	}
}

// MessagesSchema returns the JSON schema of a serialized messages tag.
func MessagesSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		DoNotReference: true,
	}
	msg := r.Reflect(&Message{})
	msg.Version = ""
	msg.ID = ""

	return &jsonschema.Schema{
		Version:     schemaDraft,
		Title:       "LLM observability messages",
		Type:        "array",
		Items:       msg,
		Description: "Canonical input or output messages of an LLM span",
	}
}

// ValidateMessages checks a serialized messages tag against MessagesSchema.
func ValidateMessages(serialized string) error {
	schema, err := json.Marshal(MessagesSchema())
	if err != nil {
		return errors.Wrap(err, "encoding messages schema")
	}

	res, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schema),
		gojsonschema.NewStringLoader(serialized),
	)
	if err != nil {
		return errors.Wrap(err, "validating messages")
	}
	if res.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return errors.Errorf("invalid messages: %s", strings.Join(msgs, "; "))
}
