// Package logger builds *slog.Logger instances for the service.
//
// New picks a text or JSON handler, applies static attributes and wraps the
// handler so that values carried by context.Context (request id, provider
// event id) are attached to every record logged with a *Context method.
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.AppEnv, "subscriptions"),
//	    logger.WithContextExtractors(requestid.LogExtractor()),
//	)
//	log.InfoContext(ctx, "subscription activated",
//	    logger.Email(sub.Email),
//	    logger.Status(string(sub.Status)),
//	)
//
// Attribute helpers in attr.go keep key names consistent across packages.
// Helpers taking an error or an optional value return an empty slog.Attr
// when there is nothing to log, which slog drops.
package logger
