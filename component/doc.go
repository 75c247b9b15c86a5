// Package component defines the lifecycle contract shared by the pieces an
// errkit service starts and stops: the HTTP server, telemetry providers and
// the error catalog.
//
// Components are registered with a Registry, started in registration order
// and stopped in reverse.
package component
