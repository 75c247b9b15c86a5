// Package logger provides structured logging for errkit services using
// zerolog.
//
// It supports JSON and console output, log level configuration, and
// component-scoped loggers with map-based structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.WithComponent("resolver")
//	log.Error("request failed", logger.Fields("status", 500))
package logger
