// Package server provides the HTTP server for errkit services: a Gin engine
// mounted on a root ServeMux behind h2c, with the error resolver installed
// so every failure renders as {"status","message"}.
//
// # Middleware
//
// Server-level middleware (server/middleware) wraps the root mux:
//
//   - RequestID: X-Request-Id generation and propagation
//   - RequestLogger: span, request metrics and status-class logging
//   - Recover: panics rendered as 500 by the resolver
//   - CORS: cross-origin headers and preflight
//   - BodySizeLimit: request body cap, overflow renders as 400
//
// Route-level Gin middleware records typed errors instead of writing
// responses: Auth, RequireRole, ContentType and RateLimit.
//
// # Endpoints
//
// Built-in endpoints (server/endpoint): /health and /info.
package server
