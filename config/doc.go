// Package config loads service configuration with Viper.
//
// Values are layered: defaults, then the YAML config file, then environment
// variables (optionally seeded from a .env file). Environment variables use
// the service prefix and underscores for nesting:
//
//	LAZYSEQ_SERVER_PORT=9090        -> server.port
//	LAZYSEQ_OBSERVABILITY_SAMPLE_RATE=0.5 -> observability.sample_rate
//
// # Usage
//
//	var cfg AppConfig
//	err := config.LoadConfig("lazyseq", &cfg, config.WithDefaults(defaults))
package config
