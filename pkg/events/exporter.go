// Package events exports finished LLM observability span records over
// watermill pub/sub, and routes them to handlers on the consuming side.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/pkg/errors"

	"github.com/go-go-golems/llmobs/pkg/helpers"
	"github.com/go-go-golems/llmobs/pkg/llmobs"
	"github.com/go-go-golems/llmobs/pkg/spans"
)

const SequenceNumberMetadataKey = "sequence_number"

// Exporter publishes span records to a topic. Each message carries a sequence
// number in the order Export was called, and the span id as correlation id.
type Exporter struct {
	publisher      message.Publisher
	topic          string
	validate       bool
	sequenceNumber uint64
	mutex          sync.Mutex
}

type ExporterOption func(*Exporter)

// WithMessageValidation rejects records whose message tags do not match the
// canonical messages schema.
func WithMessageValidation(validate bool) ExporterOption {
	return func(e *Exporter) {
		e.validate = validate
	}
}

func NewExporter(publisher message.Publisher, topic string, options ...ExporterOption) *Exporter {
	ret := &Exporter{
		publisher: helpers.CorrelationPublisherDecorator{Publisher: publisher},
		topic:     topic,
	}
	for _, o := range options {
		o(ret)
	}
	return ret
}

func (e *Exporter) Export(ctx context.Context, record spans.Record) error {
	if e.validate {
		if err := validateRecord(record); err != nil {
			return err
		}
	}

	b, err := json.Marshal(record)
	if err != nil {
		return errors.Wrapf(err, "encoding span %s", record.SpanID)
	}

	// lock for the sequence number
	e.mutex.Lock()
	defer e.mutex.Unlock()

	msg := message.NewMessage(watermill.NewUUID(), b)
	msg.SetContext(helpers.ContextWithCorrelationID(ctx, record.SpanID))
	msg.Metadata.Set(SequenceNumberMetadataKey, fmt.Sprintf("%d", e.sequenceNumber))
	e.sequenceNumber++

	if err := e.publisher.Publish(e.topic, msg); err != nil {
		return errors.Wrapf(err, "publishing span %s", record.SpanID)
	}
	return nil
}

func validateRecord(record spans.Record) error {
	for _, key := range []string{llmobs.InputMessages, llmobs.OutputMessages} {
		v, ok := record.Tags[key]
		if !ok {
			continue
		}
		if err := llmobs.ValidateMessages(v); err != nil {
			return errors.Wrapf(err, "span %s tag %s", record.SpanID, key)
		}
	}
	return nil
}

// DecodeRecord is the inverse of Export on the consuming side.
func DecodeRecord(msg *message.Message) (spans.Record, error) {
	var ret spans.Record
	if err := json.Unmarshal(msg.Payload, &ret); err != nil {
		return spans.Record{}, errors.Wrapf(err, "decoding span record from message %s", msg.UUID)
	}
	return ret, nil
}
