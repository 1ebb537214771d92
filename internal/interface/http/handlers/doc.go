// Package handlers contains the gin handlers of the tenancy API and the
// composite health checker behind /health and /ready.
//
// Every handler translates the engine's domain errors the same way:
//
//	validation -> 400
//	not found  -> 404
//	conflict   -> 409
//	otherwise  -> 500
//
// The caller identity is taken from the X-Actor-ID and X-Actor-Admin
// headers, which an upstream gateway is expected to have authenticated.
package handlers
