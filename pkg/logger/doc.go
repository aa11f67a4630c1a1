// Package logger builds *slog.Logger values with functional options and
// injects request-scoped attributes taken from context.Context.
//
// New picks a text or JSON handler, applies static attributes and wraps the
// result in LogHandlerDecorator, which runs every registered ContextExtractor
// on each record:
//
//	log := logger.New(
//	    logger.WithEnvironment(os.Getenv("APP_ENV"), "templatestyles"),
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "page styles stored", logger.PageID(42), logger.Bytes(n))
//
// Attribute helpers such as Error, PageID and Backend keep key names
// consistent across packages. Error returns an empty attribute for nil, so
// it can be passed unconditionally.
package logger
