// Package logger builds configured log/slog loggers: JSON or text output,
// level control, static attributes and per-request context extraction
// (client IP, subject id) injected at log time through a handler decorator.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithProduction("cms"),
//	    logger.WithContextValue("ip", clientIPKey),
//	)
//	logger.SetAsDefault(log)
package logger
