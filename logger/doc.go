// Package logger provides structured logging on top of zerolog.
//
// It supports JSON and console output, level configuration, component
// scoped loggers and request/trace ids carried through a context.
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "console"
//
// # Usage
//
//	log := logger.Get("di")
//	log.Info("dependency resolved", logger.Fields("dependency", "clock"))
package logger
