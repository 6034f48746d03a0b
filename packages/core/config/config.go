package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the hitsmoke configuration
type Config struct {
	BaseURL  string `json:"baseURL,omitempty" yaml:"baseURL,omitempty"`
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	Timeout  *int   `json:"timeout,omitempty" yaml:"timeout,omitempty"` // milliseconds, 0 disables
	Verbose  *bool  `json:"verbose,omitempty" yaml:"verbose,omitempty"`
	NoColor  *bool  `json:"noColor,omitempty" yaml:"noColor,omitempty"`
}

// BoolPtr returns a pointer to b
func BoolPtr(b bool) *bool {
	return &b
}

// IntPtr returns a pointer to i
func IntPtr(i int) *int {
	return &i
}

// getBool returns the value of a bool pointer, or the default if nil
func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetVerbose returns the verbose setting, defaulting to false
func (c *Config) GetVerbose() bool {
	return getBool(c.Verbose, false)
}

// GetNoColor returns the no color setting, defaulting to false
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// GetTimeout returns the timeout in milliseconds, defaulting to DefaultTimeout
func (c *Config) GetTimeout() int {
	if c.Timeout == nil {
		return DefaultTimeout
	}
	return *c.Timeout
}

// ConfigFilenames contains the possible config file names
var ConfigFilenames = []string{
	".hitsmoke.json",
	"hitsmoke.json",
	".hitsmoke.yaml",
	".hitsmoke.yml",
	"hitsmoke.yaml",
	"hitsmoke.yml",
}

// LoadConfig loads configuration from the specified path or searches for config files
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}

	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}

	return DefaultConfig(), nil
}

// loadConfigFromFile loads configuration from a specific file. YAML is used
// for .yaml and .yml files, JSON for everything else.
func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	loaded := &Config{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, loaded)
	default:
		err = json.Unmarshal(data, loaded)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return DefaultConfig().Merge(loaded), nil
}

// Environment variables read by ApplyEnv
const (
	EnvBaseURL  = "HITSMOKE_BASE_URL"
	EnvEndpoint = "HITSMOKE_ENDPOINT"
	EnvTimeout  = "HITSMOKE_TIMEOUT"
	EnvVerbose  = "HITSMOKE_VERBOSE"
	EnvNoColor  = "HITSMOKE_NO_COLOR"
)

// ApplyEnv returns a copy of c overridden by HITSMOKE_* variables found
// through lookup. HITSMOKE_TIMEOUT accepts milliseconds or a Go duration.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) (*Config, error) {
	override := &Config{}

	if v, ok := lookup(EnvBaseURL); ok && v != "" {
		override.BaseURL = v
	}
	if v, ok := lookup(EnvEndpoint); ok && v != "" {
		override.Endpoint = v
	}
	if v, ok := lookup(EnvTimeout); ok && v != "" {
		ms, err := ParseTimeout(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		override.Timeout = IntPtr(ms)
	}
	if v, ok := lookup(EnvVerbose); ok && v != "" {
		override.Verbose = BoolPtr(parseBool(v))
	}
	if v, ok := lookup(EnvNoColor); ok && v != "" {
		override.NoColor = BoolPtr(parseBool(v))
	}

	return c.Merge(override), nil
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes", "on":
		return true
	}
	return false
}

// Merge merges another config into this one, with other taking precedence
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c

	if other.BaseURL != "" {
		result.BaseURL = other.BaseURL
	}
	if other.Endpoint != "" {
		result.Endpoint = other.Endpoint
	}
	// Pointer fields only override when set in other, a zero timeout included
	if other.Timeout != nil {
		result.Timeout = other.Timeout
	}
	if other.Verbose != nil {
		result.Verbose = other.Verbose
	}
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}

	return &result
}

// SaveConfig saves the configuration to a file, as YAML for .yaml and .yml
// paths and JSON otherwise
func (c *Config) SaveConfig(path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ParseTimeout converts a timeout given as plain milliseconds ("1500") or a
// Go duration ("1.5s") to milliseconds. Zero means no timeout; positive
// durations below one millisecond round up to 1.
func ParseTimeout(v string) (int, error) {
	if ms, err := strconv.Atoi(v); err == nil {
		if ms < 0 {
			return 0, fmt.Errorf("invalid timeout %q: must not be negative", v)
		}
		return ms, nil
	}
	d, err := parseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", v, err)
	}
	ms := int(d.Milliseconds())
	if ms == 0 && d > 0 {
		ms = 1
	}
	return ms, nil
}

func parseDuration(v string) (time.Duration, error) {
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("must not be negative")
	}
	return d, nil
}
