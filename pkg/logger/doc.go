// Package logger builds configured log/slog loggers: JSON output for
// production aggregation, text for development, with static attributes
// applied to every record.
//
//	log := logger.New(
//		logger.WithFormat(logger.FormatText),
//		logger.WithLevel(slog.LevelDebug),
//		logger.WithAttr(slog.String("service", "sessiond")),
//	)
package logger
