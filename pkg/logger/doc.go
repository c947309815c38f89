// Package logger builds *slog.Logger instances with functional options and
// offers attribute helpers that keep key names consistent across packages.
//
// New picks a JSON or text handler, applies static attributes and wraps the
// handler with a decorator that pulls extra attributes out of the context on
// every record:
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.AppEnv, "notifeed"),
//	    logger.WithContextValue("subscriber", subscriberKey{}),
//	)
//	log.InfoContext(ctx, "notification accepted",
//	    logger.NotificationID(n.ID),
//	    logger.NotificationType(string(n.Type)),
//	)
//
// Discard returns a logger that drops everything, handy in tests.
package logger
