package session

import "errors"

// ErrPeerUnknown reports a send to a peer the endpoint no longer tracks.
var ErrPeerUnknown = errors.New("session: peer unknown or disconnected")

// PeerID identifies one connected peer for the lifetime of its connection.
type PeerID string

// EventKind tags one inbound event variant. The set is closed; consumers
// switch exhaustively and treat unknown kinds as observability-only.
type EventKind uint8

const (
	EventConnected EventKind = iota + 1
	EventDisconnected
	EventPacket
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventConnected:
		return "connected"
	case EventDisconnected:
		return "disconnected"
	case EventPacket:
		return "packet"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is one inbound occurrence produced by an endpoint.
// Payload is set only for EventPacket; Err only for EventError.
type Event struct {
	Kind    EventKind
	Peer    PeerID
	Payload []byte
	Err     error
}

// Endpoint is the transport collaborator surface the liveness protocol
// depends on. Implementations own connection establishment, framing and
// idle-timeout/auto-heartbeat enforcement.
//
// Broadcast and Send are best-effort and non-blocking. PollEvents drains
// every event produced since the previous call, in delivery order; the
// stream is not restartable.
type Endpoint interface {
	Listen(addr string) error
	Connect(addr string) error
	Broadcast(payload []byte)
	Send(peer PeerID, payload []byte) error
	PollEvents() []Event
	Close() error
}
