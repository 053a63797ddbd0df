package observability

import (
	"fmt"
	"time"

	"github.com/kbukum/lazyseq/validation"
)

// Config configures OTLP export of traces and metrics.
type Config struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint   string        `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure   bool          `yaml:"insecure" mapstructure:"insecure"`
	Interval   time.Duration `yaml:"interval" mapstructure:"interval"`
	SampleRate float64       `yaml:"sample_rate" mapstructure:"sample_rate"`
}

// ApplyDefaults fills unset fields with development defaults.
func (c *Config) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
	}
	if c.Interval == 0 {
		c.Interval = 15 * time.Second
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	return validation.New().
		Check(c.SampleRate >= 0 && c.SampleRate <= 1, "observability.sample_rate",
			fmt.Sprintf("must be within [0, 1] (got: %v)", c.SampleRate)).
		Check(c.Interval >= 0, "observability.interval",
			fmt.Sprintf("must be non-negative (got: %s)", c.Interval)).
		Validate()
}
