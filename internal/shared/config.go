package shared

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

//go:embed config.example.toml
var exampleConf []byte

// DefaultHost is used when neither the config file nor the command line name a server.
const DefaultHost = "http://localhost:32400"

// ConfigCandidates are the file names tried, in order, when no config path is given.
var ConfigCandidates = []string{"config.toml", "config.yml", "config.yaml"}

// Config represents the application configuration loaded from a TOML (or legacy YAML) file.
type Config struct {
	Host       string    `toml:"host" yaml:"host"`
	Token      string    `toml:"token" yaml:"token"`
	Playlist   string    `toml:"playlist" yaml:"playlist"`
	Section    SectionID `toml:"section" yaml:"section"`
	Collection string    `toml:"collection" yaml:"collection"`
	LogLevel   string    `toml:"log_level" yaml:"log_level"`
	RateLimit  float64   `toml:"rate_limit" yaml:"rate_limit"`
}

// SectionID is a library section identifier that may be written either as a number or as a string.
type SectionID string

// UnmarshalTOML implements [toml.Unmarshaler].
func (s *SectionID) UnmarshalTOML(v any) error {
	switch t := v.(type) {
	case int64:
		*s = SectionID(strconv.FormatInt(t, 10))
	case string:
		*s = SectionID(t)
	default:
		return fmt.Errorf("%w: section must be a number or string, got %T", ErrInvalidConfig, v)
	}
	return nil
}

// UnmarshalYAML implements [yaml.Unmarshaler].
func (s *SectionID) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: section must be a scalar (line %d)", ErrInvalidConfig, n.Line)
	}
	if n.Tag == "!!null" {
		*s = ""
		return nil
	}
	*s = SectionID(n.Value)
	return nil
}

// LoadConfig reads and parses a configuration file from the specified path.
//
// Files ending in .yml or .yaml are parsed as YAML, everything else as TOML.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
		}
	default:
		if err := toml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
		}
	}

	return &config, nil
}

// FindConfig returns the config path to load.
//
// An explicit path is returned as-is when it exists. Otherwise each of [ConfigCandidates] is tried in dir.
// Returns [ErrMissingConfig] when nothing is found.
func FindConfig(explicit, dir string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("%w: %s", ErrMissingConfig, explicit)
		}
		return explicit, nil
	}

	for _, name := range ConfigCandidates {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrMissingConfig, strings.Join(ConfigCandidates, ", "))
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
