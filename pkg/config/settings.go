// Package config loads the LLM observability settings from config files,
// environment variables and bound flags.
package config

import (
	"strings"

	"github.com/huandu/go-clone"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	EnvPrefix    = "llmobs"
	DefaultTopic = "llmobs.spans"
)

type Settings struct {
	// Enabled turns extended LLM observability tagging on. Base tags are
	// written regardless.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// MLApp names the application the spans belong to.
	MLApp string `yaml:"ml_app,omitempty" mapstructure:"ml_app"`
	// Topic is the pub/sub topic finished span records are exported to.
	Topic string `yaml:"topic" mapstructure:"topic"`
	// ValidateMessages checks serialized message tags against the messages
	// schema before export.
	ValidateMessages bool `yaml:"validate_messages" mapstructure:"validate_messages"`
}

func NewSettings() *Settings {
	return &Settings{
		Enabled: false,
		Topic:   DefaultTopic,
	}
}

func (s *Settings) Clone() *Settings {
	return clone.Clone(s).(*Settings)
}

// NewViper returns a viper instance reading LLMOBS_* environment variables,
// e.g. LLMOBS_ENABLED=true, with the defaults of NewSettings.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	defaults := NewSettings()
	v.SetDefault("enabled", defaults.Enabled)
	v.SetDefault("ml_app", defaults.MLApp)
	v.SetDefault("topic", defaults.Topic)
	v.SetDefault("validate_messages", defaults.ValidateMessages)
	return v
}

// ReadConfigFile reads path into v. With an empty path the settings come from
// the environment and defaults only.
func ReadConfigFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return errors.Wrapf(err, "reading config file %s", path)
	}
	return nil
}

func Load(v *viper.Viper) (*Settings, error) {
	s := NewSettings()
	if err := v.Unmarshal(s); err != nil {
		return nil, errors.Wrap(err, "decoding llmobs settings")
	}
	if s.Topic == "" {
		s.Topic = DefaultTopic
	}
	return s, nil
}
