// Package session defines the endpoint contract the liveness protocol runs on.
//
// Ownership boundary:
// - Endpoint capability surface (listen/connect/broadcast/send/poll)
// - inbound Event variants and ordering guarantees
// - endpoint reliability configuration (idle timeout, auto-heartbeat)
// - local address discovery for server startup
package session
