// Package liveness owns the bounded ping/pong exchange layered on a session
// endpoint.
//
// Ownership boundary:
// - role configuration (server/client, budgets, timeout passthrough)
// - startup handshake (listen xor connect)
// - ping emission on a fixed cadence under a finite reservoir
// - pong response to inbound PING packets under a finite reservoir
//
// The protocol is a counting protocol: budgets saturate at zero and an
// exhausted budget permanently disables its action. Send failures are
// logged at the point of occurrence and never propagate past the tick.
package liveness
