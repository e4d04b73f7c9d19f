// Package logger builds slog loggers for the service and provides attribute
// helpers so log keys stay consistent across packages.
//
//	log := logger.New(
//		logger.WithEnvironment(cfg.AppEnv, "authservice"),
//		logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.ErrorContext(ctx, "failed to send email", logger.Component("account"), logger.Error(err))
//
// Context extractors run for every record, so request-scoped values such as
// the request id appear without being passed explicitly.
package logger
