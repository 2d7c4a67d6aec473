package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the name of the YAML config file.
const FileName = ".btfilter.yaml"

// FileConfig represents .btfilter.yaml.
type FileConfig struct {
	Theme      string                  `yaml:"theme,omitempty"`
	NoColor    *bool                   `yaml:"no_color,omitempty"`
	Format     string                  `yaml:"format,omitempty"`
	Debug      bool                    `yaml:"debug,omitempty"`
	SystemPath string                  `yaml:"system_path,omitempty"`
	Prefixes   []string                `yaml:"prefixes,omitempty"`
	Colors     map[string]ItemConfig   `yaml:"colors,omitempty"`
	Filters    map[string]FilterConfig `yaml:"filters,omitempty"`
}

// ItemConfig holds the attributes of one color item. Empty fields keep the
// registry's current value.
type ItemConfig struct {
	Intensity  string `yaml:"intensity,omitempty"`
	Foreground string `yaml:"foreground,omitempty"`
	Background string `yaml:"background,omitempty"`
}

// FilterConfig overrides a registered filter's state.
type FilterConfig struct {
	Enabled  *bool `yaml:"enabled,omitempty"`
	Priority *int  `yaml:"priority,omitempty"`
}

// Load reads and parses the config file at path.
func Load(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML config data. Unknown keys are rejected.
func Parse(data []byte) (*FileConfig, error) {
	var cfg FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return &FileConfig{}, nil
		}
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// FindPath looks for the config file in the working directory first, then
// under the user config directory. It returns "" when neither exists.
func FindPath() string {
	if _, err := os.Stat(FileName); err == nil {
		return FileName
	}
	configHome, err := os.UserConfigDir()
	if err != nil || configHome == "" || configHome == "/" {
		return ""
	}
	xdgPath := filepath.Join(configHome, "btfilter", FileName)
	if _, err := os.Stat(xdgPath); err == nil {
		return xdgPath
	}
	return ""
}
