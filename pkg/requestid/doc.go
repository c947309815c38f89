// Package requestid tags every HTTP request with a correlation id.
//
// Middleware reuses a well-formed X-Request-ID header from the client or
// generates a UUID, stores the id in the request context and echoes it in
// the response. LoggerExtractor plugs the id into pkg/logger so every record
// written with the request context carries it:
//
//	log := logger.New(logger.WithContextExtractors(requestid.LoggerExtractor()))
//
//	r := chi.NewRouter()
//	r.Use(requestid.Middleware())
package requestid
