package cmds

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/go-go-golems/llmobs/pkg/config"
	"github.com/go-go-golems/llmobs/pkg/integrations/anthropic"
	"github.com/go-go-golems/llmobs/pkg/llmobs"
	"github.com/go-go-golems/llmobs/pkg/spans"
)

func decodeRecords(t *testing.T, out []byte) []spans.Record {
	t.Helper()
	ret := []spans.Record{}
	decoder := yaml.NewDecoder(bytes.NewReader(out))
	for {
		var r spans.Record
		err := decoder.Decode(&r)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		ret = append(ret, r)
	}
	return ret
}

func runFixtures(t *testing.T, settings *config.Settings, rs *RunSettings) []spans.Record {
	t.Helper()
	fixtures, err := DecodeFixtures(strings.NewReader(weatherFixture))
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	require.NoError(t, Run(context.Background(), buf, settings, rs, fixtures))
	return decodeRecords(t, buf.Bytes())
}

func TestRun(t *testing.T) {
	for _, typed := range []bool{false, true} {
		settings := config.NewSettings()
		settings.Enabled = true
		settings.ValidateMessages = true
		settings.MLApp = "weather-bot"

		records := runFixtures(t, settings, &RunSettings{Typed: typed})
		require.Len(t, records, 2)

		weather := records[0]
		assert.Equal(t, SpanName, weather.Name)
		assert.Equal(t, "weather", weather.Source)
		assert.False(t, weather.Error)
		assert.Equal(t, "weather-bot", weather.Tags[llmobs.MLApp])
		assert.Equal(t, "sk-...1234", weather.Tags[anthropic.APIKeyTag])
		assert.Equal(t, "claude-3-opus-20240229", weather.Tags[llmobs.ModelName])
		assert.Equal(t,
			`[{"content":"Respond briefly.","role":"system"},{"content":"What's the weather in Paris?","role":"user"}]`,
			weather.Tags[llmobs.InputMessages])
		assert.Equal(t,
			`[{"content":"Let me check.","role":"assistant"},{"content":"[tool: get_weather]\n\n{\"location\":\"Paris\"}","role":"assistant"}]`,
			weather.Tags[llmobs.OutputMessages])
		assert.Equal(t, `{"max_tokens":64}`, weather.Tags[llmobs.Metadata])
		assert.Equal(t, `{"completion_tokens":9,"prompt_tokens":20,"total_tokens":29}`, weather.Tags[llmobs.Metrics])
		assert.Equal(t, 29.0, weather.Metrics[anthropic.TotalTokensMetric])

		overloaded := records[1]
		assert.Equal(t, "overloaded", overloaded.Source)
		assert.True(t, overloaded.Error)
		assert.Equal(t, "overloaded_error", overloaded.Tags[spans.ErrorMsgTag])
		assert.Equal(t, `[{"content":""}]`, overloaded.Tags[llmobs.OutputMessages])
		assert.NotContains(t, overloaded.Tags, anthropic.APIKeyTag)
	}
}

func TestRunDisabled(t *testing.T) {
	records := runFixtures(t, config.NewSettings(), &RunSettings{})
	require.Len(t, records, 2)

	assert.Equal(t, "claude-3-opus-20240229", records[0].Tags[anthropic.ModelTag])
	assert.Equal(t, 29.0, records[0].Metrics[anthropic.TotalTokensMetric])
	assert.NotContains(t, records[0].Tags, llmobs.SpanKind)
	assert.NotContains(t, records[0].Tags, llmobs.MLApp)
}

func TestRunNoFixtures(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, Run(context.Background(), buf, config.NewSettings(), &RunSettings{}, nil))
	assert.Empty(t, decodeRecords(t, buf.Bytes()))
}
