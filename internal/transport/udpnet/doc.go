// Package udpnet is a best-effort UDP session endpoint.
//
// Ownership boundary:
// - hello/hello.ack connection announcement and the peer registry
// - data delivery as ordered inbound Packet events
// - idle-timeout expiry and auto-heartbeat emission from session.Config
//
// Delivery is unreliable and unordered by nature of UDP; the endpoint makes
// no retransmission or reordering promises. Heartbeats are transport-level
// and never surface as Packet events.
package udpnet
