package events

import (
	"context"
	"testing"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-go-golems/llmobs/pkg/helpers"
	"github.com/go-go-golems/llmobs/pkg/llmobs"
	"github.com/go-go-golems/llmobs/pkg/spans"
)

type capturePublisher struct {
	topics   []string
	messages []*message.Message
}

func (c *capturePublisher) Publish(topic string, messages ...*message.Message) error {
	for range messages {
		c.topics = append(c.topics, topic)
	}
	c.messages = append(c.messages, messages...)
	return nil
}

func (c *capturePublisher) Close() error { return nil }

func newRecord(t *testing.T, output string) spans.Record {
	t.Helper()
	span := spans.NewRecordingSpan("anthropic.request")
	span.SetTag(llmobs.SpanKind, llmobs.SpanKindLLM)
	span.SetTag(llmobs.OutputMessages, output)
	span.SetMetric("anthropic.response.usage.total_tokens", 12)
	span.Finish()
	return span.Snapshot()
}

func TestExporterExport(t *testing.T) {
	pub := &capturePublisher{}
	e := NewExporter(pub, "llmobs.spans")

	first := newRecord(t, `[{"content":"one","role":"assistant"}]`)
	second := newRecord(t, `[{"content":""}]`)
	require.NoError(t, e.Export(context.Background(), first))
	require.NoError(t, e.Export(context.Background(), second))

	require.Len(t, pub.messages, 2)
	assert.Equal(t, []string{"llmobs.spans", "llmobs.spans"}, pub.topics)
	assert.Equal(t, "0", pub.messages[0].Metadata.Get(SequenceNumberMetadataKey))
	assert.Equal(t, "1", pub.messages[1].Metadata.Get(SequenceNumberMetadataKey))
	assert.Equal(t, first.SpanID, pub.messages[0].Metadata.Get(helpers.CorrelationIDMessageMetadataKey))
	assert.Equal(t, second.SpanID, pub.messages[1].Metadata.Get(helpers.CorrelationIDMessageMetadataKey))

	decoded, err := DecodeRecord(pub.messages[0])
	require.NoError(t, err)
	assert.Equal(t, first.SpanID, decoded.SpanID)
	assert.Equal(t, first.Tags, decoded.Tags)
	assert.Equal(t, first.Metrics, decoded.Metrics)
}

func TestExporterValidation(t *testing.T) {
	pub := &capturePublisher{}
	e := NewExporter(pub, "llmobs.spans", WithMessageValidation(true))

	require.NoError(t, e.Export(context.Background(), newRecord(t, `[{"content":["a","b"],"role":"user"}]`)))

	err := e.Export(context.Background(), newRecord(t, `[{"content":3}]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), llmobs.OutputMessages)
	assert.Len(t, pub.messages, 1)
}

func TestDecodeRecordRejectsGarbage(t *testing.T) {
	_, err := DecodeRecord(message.NewMessage("1", []byte("not json")))
	assert.Error(t, err)
}
