package main

import (
	"fmt"

	"github.com/kbukum/lazyseq/config"
	"github.com/kbukum/lazyseq/demo"
	"github.com/kbukum/lazyseq/logger"
	"github.com/kbukum/lazyseq/observability"
	"github.com/kbukum/lazyseq/server"
)

// appConfig is the full configuration of the binary.
type appConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Server               server.Config        `yaml:"server" mapstructure:"server"`
	Observability        observability.Config `yaml:"observability" mapstructure:"observability"`
	Scenario             demo.Scenario        `yaml:"scenario" mapstructure:"scenario"`
}

// defaults registers every key so LAZYSEQ_* environment variables can
// override it.
func defaults() map[string]any {
	sc := demo.DefaultScenario()
	return map[string]any{
		"name":                      serviceName,
		"environment":               "development",
		"logging.level":             "info",
		"logging.format":            "console",
		"logging.output":            "stderr",
		"logging.no_color":          false,
		"server.host":               "",
		"server.port":               8080,
		"server.read_timeout":       "15s",
		"server.write_timeout":      "15s",
		"server.idle_timeout":       "60s",
		"server.evaluate_timeout":   "5s",
		"server.max_body_bytes":     1 << 20,
		"observability.enabled":     false,
		"observability.endpoint":    "localhost:4318",
		"observability.insecure":    true,
		"observability.interval":    "15s",
		"observability.sample_rate": 1.0,
		"scenario.source":           sc.Source,
		"scenario.threshold":        sc.Threshold,
		"scenario.factor":           sc.Factor,
		"scenario.take":             sc.Take,
		"scenario.mode":             sc.Mode,
	}
}

func (c *appConfig) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

func (c *appConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Observability.Validate(); err != nil {
		return err
	}
	if err := c.Scenario.Validate(); err != nil {
		return fmt.Errorf("config.scenario: %w", err)
	}
	return nil
}

// Component loggers registered by loadConfig.
const (
	componentDemo   = "demo"
	componentServer = "server"
)

// loadConfig loads, defaults and validates the configuration, then installs
// the global logger and the component loggers from it.
func loadConfig(flags *rootFlags) (*appConfig, *logger.Logger, error) {
	opts := []config.LoaderOption{config.WithDefaults(defaults())}
	if flags.configFile != "" {
		opts = append(opts, config.WithConfigFile(flags.configFile))
	}
	if flags.envFile != "" {
		opts = append(opts, config.WithEnvFile(flags.envFile))
	}

	var cfg appConfig
	if err := config.LoadConfig(serviceName, &cfg, opts...); err != nil {
		return nil, nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger.Init(cfg.Logging)
	logger.RegisterDefaults(componentDemo, componentServer)
	return &cfg, logger.GetGlobalLogger(), nil
}
