// Package server provides the HTTP server for dirge applications: a gin
// engine mounted on a ServeMux and served over h2c.
//
// # Middleware
//
// ApplyMiddleware wraps every route with (server/middleware):
//
//   - Recovery: panic recovery answering INTERNAL_ERROR
//   - RequestID: UUID request ids propagated to logs
//   - CORS: cross-origin headers and preflight
//   - BodySizeLimit: request body cap
//   - RequestLogger: request logging with duration
//
// # Endpoints
//
// RegisterDefaultEndpoints adds (server/endpoint):
//
//   - /health: component health aggregation
//   - /ready: readiness probe
//   - /info: build information
//   - /dependencies: dependency registry listing
package server
