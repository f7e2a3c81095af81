package liveness

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/danmuck/pulsectl/internal/observability"
	"github.com/danmuck/pulsectl/internal/protocol/session"
	"github.com/rs/zerolog/log"
)

const pingText = "PING"

// Responder answers inbound PING packets. With a counter it is the bounded
// variant replying "PONG" until the reservoir runs dry; the unbounded
// variant replies "PONG @ <elapsed-seconds>" without limit.
type Responder struct {
	node      string
	transport Transport
	counter   *Counter
	pong      func() []byte
}

// NewResponder returns the bounded responder backed by the shared counter.
func NewResponder(node string, t Transport, c *Counter) *Responder {
	return &Responder{
		node:      node,
		transport: t,
		counter:   c,
		pong:      func() []byte { return []byte("PONG") },
	}
}

// NewUnboundedResponder returns the simple-variant responder. Replies embed
// seconds elapsed since start.
func NewUnboundedResponder(node string, t Transport, start time.Time) *Responder {
	return &Responder{
		node:      node,
		transport: t,
		pong: func() []byte {
			return fmt.Appendf(nil, "PONG @ %v", time.Since(start).Seconds())
		},
	}
}

// Drain processes one event batch in delivery order, one invocation per
// event. No reordering, no deduplication: two identical PINGs yield two
// independent reply attempts.
func (r *Responder) Drain(events []session.Event) {
	for _, ev := range events {
		r.handle(ev)
	}
}

func (r *Responder) handle(ev session.Event) {
	switch ev.Kind {
	case session.EventPacket:
		message := strings.ToValidUTF8(string(ev.Payload), string(utf8.RuneError))
		log.Info().Str("peer", string(ev.Peer)).Msgf("got packet: %s", message)
		if message != pingText {
			return
		}
		r.reply(ev.Peer)
	default:
		log.Info().
			Str("peer", string(ev.Peer)).
			Str("kind", ev.Kind.String()).
			Err(ev.Err).
			Msg("other event")
	}
}

func (r *Responder) reply(peer session.PeerID) {
	if r.counter != nil {
		if _, ok := r.counter.TakePong(); !ok {
			observability.RecordPongSuppressed(r.node)
			log.Info().Str("peer", string(peer)).Msg("no pongs left to send")
			return
		}
	}
	if err := r.transport.Send(peer, r.pong()); err != nil {
		log.Warn().Str("peer", string(peer)).Msgf("PONG send error: %v", err)
		return
	}
	observability.RecordPongSent(r.node)
	log.Info().Str("peer", string(peer)).Msg("sent PONG")
}
