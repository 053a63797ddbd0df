// Package logger provides structured logging for lazyseq using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers with structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "console"
//
// # Usage
//
//	logger.Init(cfg)
//	logger.RegisterDefaults("demo", "server")
//
//	log := logger.Get("demo")
//	log.Debug("materialized", logger.Fields("mode", "lazy", "items", 1))
package logger
