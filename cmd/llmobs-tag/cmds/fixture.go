package cmds

import (
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/go-go-golems/llmobs/pkg/anthropic/api"
)

// Fixture is one recorded Messages API call. JSON files are read as YAML.
type Fixture struct {
	Name string `yaml:"name,omitempty"`
	// Kwargs are the request keyword arguments: model, system, messages,
	// temperature, max_tokens.
	Kwargs   map[string]any `yaml:"kwargs"`
	Response any            `yaml:"response,omitempty"`
	// Error makes the replayed call fail with this message.
	Error  string  `yaml:"error,omitempty"`
	APIKey *string `yaml:"api_key,omitempty"`
}

// LoadFixtures reads every YAML document of every file, in order.
func LoadFixtures(paths ...string) ([]Fixture, error) {
	ret := []Fixture{}
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrapf(err, "opening fixture %s", path)
		}
		fixtures, err := DecodeFixtures(f)
		_ = f.Close()
		if err != nil {
			return nil, errors.Wrapf(err, "decoding fixture %s", path)
		}
		for i := range fixtures {
			if fixtures[i].Name == "" {
				fixtures[i].Name = path
			}
		}
		ret = append(ret, fixtures...)
	}
	return ret, nil
}

func DecodeFixtures(r io.Reader) ([]Fixture, error) {
	ret := []Fixture{}
	decoder := yaml.NewDecoder(r)
	for {
		var f Fixture
		err := decoder.Decode(&f)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if f.Kwargs == nil {
			f.Kwargs = map[string]any{}
		}
		ret = append(ret, f)
	}
	return ret, nil
}

// TypedResponse decodes the fixture response into the typed Messages API
// response, so it is read through struct fields instead of map keys.
func (f Fixture) TypedResponse() (*api.MessageResponse, error) {
	if f.Response == nil {
		return nil, nil
	}
	b, err := json.Marshal(f.Response)
	if err != nil {
		return nil, errors.Wrap(err, "encoding fixture response")
	}
	ret := &api.MessageResponse{}
	if err := json.Unmarshal(b, ret); err != nil {
		return nil, errors.Wrap(err, "decoding typed response")
	}
	return ret, nil
}
