// Package config loads the YAML configuration of the contour tools.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gorustyt/navcontour/common/xlog"
	"github.com/gorustyt/navcontour/recast"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Contour recast.ContourConfig `yaml:"contour"`
	Log     xlog.Config          `yaml:"log"`
}

func Default() Config {
	return Config{
		Contour: recast.DefaultContourConfig(),
		Log:     xlog.DefaultConfig(),
	}
}

func (c Config) Validate() error {
	return multierr.Combine(c.Contour.Validate(), c.Log.Validate())
}

// Parse reads a YAML document from r on top of the defaults. Unknown keys
// are rejected. An empty document yields the defaults.
func Parse(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Load parses the YAML file at path.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	defer f.Close()
	return Parse(f)
}
