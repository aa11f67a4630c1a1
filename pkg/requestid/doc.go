// Package requestid tags every HTTP request with a correlation ID.
//
// Middleware reuses the client's X-Request-ID header when it is a short
// token of letters, digits, '-' and '_', and otherwise generates a UUID. The
// ID is echoed in the response and stored in the request context, where
// LoggerExtractor picks it up for structured logs:
//
//	log := logger.New(logger.WithContextExtractors(requestid.LoggerExtractor()))
//	http.ListenAndServe(":8080", requestid.Middleware(router))
package requestid
