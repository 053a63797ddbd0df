package server

import (
	"fmt"
	"time"

	"github.com/kbukum/lazyseq/validation"
)

// Config holds HTTP server configuration.
type Config struct {
	Host            string        `yaml:"host" mapstructure:"host"`
	Port            int           `yaml:"port" mapstructure:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
	EvaluateTimeout time.Duration `yaml:"evaluate_timeout" mapstructure:"evaluate_timeout"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 15 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 15 * time.Second
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 60 * time.Second
	}
	if c.EvaluateTimeout == 0 {
		c.EvaluateTimeout = 5 * time.Second
	}
	if c.MaxBodyBytes == 0 {
		c.MaxBodyBytes = 1 << 20
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	return validation.New().
		Range("server.port", c.Port, 0, 65535).
		Check(c.ReadTimeout >= 0, "server.read_timeout", nonNegative(c.ReadTimeout)).
		Check(c.WriteTimeout >= 0, "server.write_timeout", nonNegative(c.WriteTimeout)).
		Check(c.IdleTimeout >= 0, "server.idle_timeout", nonNegative(c.IdleTimeout)).
		Check(c.EvaluateTimeout >= 0, "server.evaluate_timeout", nonNegative(c.EvaluateTimeout)).
		Check(c.MaxBodyBytes >= 0, "server.max_body_bytes", nonNegative(c.MaxBodyBytes)).
		Validate()
}

func nonNegative(v any) string {
	return fmt.Sprintf("must be non-negative (got: %v)", v)
}

// Addr returns host:port.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
