// Package config holds the settings of the fatscan command.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/aligator/fatscan/checkpoint"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Config contains everything which can be set in the config file.
// Command line flags override the values of the file.
type Config struct {
	Format   string `yaml:"format"`
	Pretty   bool   `yaml:"pretty"`
	LogLevel string `yaml:"log_level"`
	Progress bool   `yaml:"progress"`
}

// Default returns the settings used without config file.
func Default() Config {
	return Config{
		Format:   FormatText,
		LogLevel: "warn",
	}
}

// Load reads the config file at path. Keys missing in the file keep their
// default values. An empty path just returns the defaults.
func Load(fs afero.Fs, path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return Config{}, checkpoint.Wrap(err, fmt.Errorf("reading config %s", path))
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, checkpoint.Wrap(err, fmt.Errorf("parsing config %s", path))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values which are not checked by the YAML decoder.
func (c Config) Validate() error {
	switch c.Format {
	case FormatText, FormatJSON, FormatYAML:
		return nil
	default:
		return fmt.Errorf("unsupported format %q (supported: text, json, yaml)", c.Format)
	}
}
