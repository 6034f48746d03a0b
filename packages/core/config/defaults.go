package config

import "time"

const (
	DefaultBaseURL  = "http://localhost:8080"
	DefaultEndpoint = "/test"
	DefaultTimeout  = 30000 // milliseconds
)

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		BaseURL:  DefaultBaseURL,
		Endpoint: DefaultEndpoint,
		Timeout:  IntPtr(DefaultTimeout),
		Verbose:  BoolPtr(false),
		NoColor:  BoolPtr(false),
	}
}

// IsDefault returns true if the config matches defaults
func (c *Config) IsDefault() bool {
	defaults := DefaultConfig()
	return c.BaseURL == defaults.BaseURL &&
		c.Endpoint == defaults.Endpoint &&
		c.GetTimeout() == defaults.GetTimeout() &&
		c.GetVerbose() == defaults.GetVerbose() &&
		c.GetNoColor() == defaults.GetNoColor()
}

// TimeoutDuration returns the request timeout. Zero means none.
func (c *Config) TimeoutDuration() time.Duration {
	return time.Duration(c.GetTimeout()) * time.Millisecond
}
