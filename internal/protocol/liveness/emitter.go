package liveness

import (
	"github.com/danmuck/pulsectl/internal/observability"
	"github.com/danmuck/pulsectl/internal/protocol/session"
	"github.com/rs/zerolog/log"
)

// PingPayload is the exact byte sequence peers compare against.
var PingPayload = []byte("PING")

// Transport is the endpoint capability surface the protocol needs after
// startup. Both calls are best-effort and non-blocking.
type Transport interface {
	Broadcast(payload []byte)
	Send(peer session.PeerID, payload []byte) error
}

// Emitter broadcasts PING on a fixed cadence. With a counter it is the
// bounded variant: one reservoir credit per broadcast, permanent no-op on
// exhaustion. Without one it is the unbounded variant, gated only on role.
type Emitter struct {
	node      string
	transport Transport
	counter   *Counter
	isServer  bool
}

// NewEmitter returns the bounded emitter backed by the shared counter.
func NewEmitter(node string, t Transport, c *Counter) *Emitter {
	return &Emitter{node: node, transport: t, counter: c}
}

// NewUnboundedEmitter returns the simple-variant emitter. A server role
// never emits; there is no reservoir.
func NewUnboundedEmitter(node string, t Transport, isServer bool) *Emitter {
	return &Emitter{node: node, transport: t, isServer: isServer}
}

// Emit performs at most one broadcast. The caller invokes it once per
// cadence gate opening; broadcast failures are not distinguished.
func (e *Emitter) Emit() {
	if e.counter != nil {
		remaining, ok := e.counter.TakePing()
		if !ok {
			return
		}
		e.transport.Broadcast(PingPayload)
		observability.RecordPingSent(e.node)
		if remaining == 0 {
			log.Info().Msg("(no more pings left to send)")
		}
		return
	}
	if e.isServer {
		return
	}
	log.Info().Msg("PING")
	e.transport.Broadcast(PingPayload)
	observability.RecordPingSent(e.node)
}
