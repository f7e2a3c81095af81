package udpnet

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/danmuck/pulsectl/internal/observability"
	"github.com/danmuck/pulsectl/internal/protocol/frame"
	"github.com/danmuck/pulsectl/internal/protocol/session"
	"github.com/rs/zerolog/log"
)

var ErrEndpointClosed = errors.New("udpnet: endpoint closed")

// maintenance granularity for idle expiry and heartbeat checks.
const maintainInterval = 250 * time.Millisecond

type peerState struct {
	id        session.PeerID
	addr      *net.UDPAddr
	name      string
	lastRecv  time.Time
	lastSend  time.Time
	announced bool
}

// Endpoint implements session.Endpoint over UDP datagrams.
type Endpoint struct {
	name   string
	cfg    session.Config
	limits frame.Limits

	mu     sync.Mutex
	conn   *net.UDPConn
	peers  map[session.PeerID]*peerState
	closed bool

	events chan session.Event
	seq    atomic.Uint64
	stop   chan struct{}
	wg     sync.WaitGroup

	now func() time.Time
}

func NewEndpoint(name string, cfg session.Config) *Endpoint {
	cfg = cfg.WithDefaults()
	return &Endpoint{
		name:   name,
		cfg:    cfg,
		limits: frame.Limits{MaxPayloadBytes: cfg.MaxPayloadBytes},
		peers:  make(map[session.PeerID]*peerState),
		events: make(chan session.Event, cfg.MaxEventQueue),
		stop:   make(chan struct{}),
		now:    time.Now,
	}
}

func (e *Endpoint) Listen(addr string) error {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return fmt.Errorf("udpnet: resolve %s: %w", addr, err)
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return fmt.Errorf("udpnet: listen %s: %w", addr, err)
	}
	e.mu.Lock()
	e.conn = conn
	e.mu.Unlock()
	e.start()
	log.Info().Str("addr", conn.LocalAddr().String()).Msg("endpoint listening")
	return nil
}

func (e *Endpoint) Connect(addr string) error {
	remote, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return fmt.Errorf("udpnet: resolve %s: %w", addr, err)
	}
	conn, err := net.ListenUDP("udp", nil)
	if err != nil {
		return fmt.Errorf("udpnet: open socket: %w", err)
	}
	e.mu.Lock()
	e.conn = conn
	p := e.ensurePeerLocked(remote)
	e.mu.Unlock()
	e.start()

	payload, err := helloPayload(e.name)
	if err != nil {
		return fmt.Errorf("udpnet: build hello: %w", err)
	}
	if err := e.write(p, frame.TypeHello, payload); err != nil {
		return fmt.Errorf("udpnet: send hello to %s: %w", addr, err)
	}
	log.Info().Str("addr", addr).Msg("endpoint connecting")
	return nil
}

// LocalAddr returns the bound socket address, or "" before Listen/Connect.
func (e *Endpoint) LocalAddr() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.conn == nil {
		return ""
	}
	return e.conn.LocalAddr().String()
}

// Broadcast sends payload to every known peer, best effort. Per-peer write
// failures are not distinguished to the caller.
func (e *Endpoint) Broadcast(payload []byte) {
	for _, p := range e.snapshotPeers() {
		if err := e.write(p, frame.TypeData, payload); err != nil {
			log.Debug().Str("peer", string(p.id)).Msgf("broadcast write: %v", err)
		}
	}
}

func (e *Endpoint) Send(peer session.PeerID, payload []byte) error {
	e.mu.Lock()
	p, ok := e.peers[peer]
	e.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", session.ErrPeerUnknown, peer)
	}
	if err := e.write(p, frame.TypeData, payload); err != nil {
		return fmt.Errorf("udpnet: send to %s: %w", peer, err)
	}
	return nil
}

// PollEvents drains every queued event without blocking.
func (e *Endpoint) PollEvents() []session.Event {
	var out []session.Event
	for {
		select {
		case ev := <-e.events:
			out = append(out, ev)
		default:
			return out
		}
	}
}

func (e *Endpoint) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	conn := e.conn
	peers := make([]*peerState, 0, len(e.peers))
	for _, p := range e.peers {
		peers = append(peers, p)
	}
	e.mu.Unlock()

	if conn != nil {
		for _, p := range peers {
			if err := e.write(p, frame.TypeBye, nil); err != nil {
				log.Debug().Str("peer", string(p.id)).Msgf("bye write: %v", err)
			}
		}
	}
	close(e.stop)
	if conn != nil {
		_ = conn.Close()
	}
	e.wg.Wait()
	return nil
}

func (e *Endpoint) start() {
	e.wg.Add(2)
	go e.readLoop()
	go e.maintainLoop()
}

func (e *Endpoint) readLoop() {
	defer e.wg.Done()
	buf := make([]byte, e.cfg.ReadBufferBytes)
	for {
		n, remote, err := e.conn.ReadFromUDP(buf)
		if err != nil {
			select {
			case <-e.stop:
				return
			default:
			}
			log.Warn().Msgf("read loop: %v", err)
			return
		}
		d, err := frame.Decode(buf[:n], e.limits)
		if err != nil {
			e.emit(session.Event{
				Kind: session.EventError,
				Peer: session.PeerID(remote.String()),
				Err:  err,
			})
			continue
		}
		e.handleDatagram(remote, d)
	}
}

func (e *Endpoint) handleDatagram(remote *net.UDPAddr, d frame.Datagram) {
	observability.RecordPacketReceived(e.name, d.Header.Type.String())
	now := e.now()

	switch d.Header.Type {
	case frame.TypeHello:
		name, err := parseHello(d.Payload)
		if err != nil {
			e.emit(session.Event{Kind: session.EventError, Peer: session.PeerID(remote.String()), Err: err})
			return
		}
		p, fresh := e.touchPeer(remote, now)
		e.setPeerName(p, name)
		if fresh {
			log.Info().Str("peer", string(p.id)).Str("name", name).Msg("peer connected")
		}
		ack, err := helloPayload(e.name)
		if err == nil {
			if werr := e.write(p, frame.TypeHelloAck, ack); werr != nil {
				log.Debug().Str("peer", string(p.id)).Msgf("hello.ack write: %v", werr)
			}
		}
	case frame.TypeHelloAck:
		name, err := parseHello(d.Payload)
		if err != nil {
			e.emit(session.Event{Kind: session.EventError, Peer: session.PeerID(remote.String()), Err: err})
			return
		}
		p, fresh := e.touchPeer(remote, now)
		e.setPeerName(p, name)
		if fresh {
			log.Info().Str("peer", string(p.id)).Str("name", name).Msg("peer connected")
		}
	case frame.TypeData:
		p, _ := e.touchPeer(remote, now)
		e.emit(session.Event{Kind: session.EventPacket, Peer: p.id, Payload: d.Payload})
	case frame.TypeHeartbeat:
		// Keeps the peer alive; never surfaces to consumers.
		e.touchPeer(remote, now)
	case frame.TypeBye:
		e.dropPeer(session.PeerID(remote.String()), "bye")
	default:
		e.emit(session.Event{
			Kind: session.EventError,
			Peer: session.PeerID(remote.String()),
			Err:  fmt.Errorf("udpnet: unexpected datagram type %s", d.Header.Type),
		})
	}
}

// touchPeer records traffic from remote, registering it when unknown.
// fresh reports whether a Connected event was emitted for this call.
func (e *Endpoint) touchPeer(remote *net.UDPAddr, now time.Time) (*peerState, bool) {
	e.mu.Lock()
	p := e.ensurePeerLocked(remote)
	p.lastRecv = now
	fresh := !p.announced
	p.announced = true
	e.mu.Unlock()
	if fresh {
		e.emit(session.Event{Kind: session.EventConnected, Peer: p.id})
	}
	return p, fresh
}

func (e *Endpoint) setPeerName(p *peerState, name string) {
	e.mu.Lock()
	p.name = name
	e.mu.Unlock()
}

func (e *Endpoint) ensurePeerLocked(remote *net.UDPAddr) *peerState {
	id := session.PeerID(remote.String())
	p, ok := e.peers[id]
	if !ok {
		p = &peerState{
			id:       id,
			addr:     remote,
			lastRecv: e.now(),
			lastSend: e.now(),
		}
		e.peers[id] = p
		observability.SetConnectedPeers(e.name, len(e.peers))
	}
	return p
}

func (e *Endpoint) dropPeer(id session.PeerID, reason string) {
	e.mu.Lock()
	p, ok := e.peers[id]
	if ok {
		delete(e.peers, id)
		observability.SetConnectedPeers(e.name, len(e.peers))
	}
	e.mu.Unlock()
	if !ok {
		return
	}
	log.Info().Str("peer", string(id)).Str("reason", reason).Msg("peer disconnected")
	if p.announced {
		e.emit(session.Event{Kind: session.EventDisconnected, Peer: id})
	}
}

func (e *Endpoint) snapshotPeers() []*peerState {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*peerState, 0, len(e.peers))
	for _, p := range e.peers {
		out = append(out, p)
	}
	return out
}

func (e *Endpoint) write(p *peerState, t frame.Type, payload []byte) error {
	b, err := frame.Encode(frame.New(t, e.seq.Add(1), payload), e.limits)
	if err != nil {
		return err
	}
	e.mu.Lock()
	conn := e.conn
	p.lastSend = e.now()
	e.mu.Unlock()
	if conn == nil {
		return ErrEndpointClosed
	}
	if _, err := conn.WriteToUDP(b, p.addr); err != nil {
		return err
	}
	return nil
}

func (e *Endpoint) maintainLoop() {
	defer e.wg.Done()
	ticker := time.NewTicker(maintainInterval)
	defer ticker.Stop()
	for {
		select {
		case <-e.stop:
			return
		case <-ticker.C:
			now := e.now()
			e.expireIdlePeers(now)
			e.sendHeartbeats(now)
		}
	}
}

// expireIdlePeers drops peers whose last inbound traffic is older than the
// configured idle timeout.
func (e *Endpoint) expireIdlePeers(now time.Time) {
	if e.cfg.IdleTimeout <= 0 {
		return
	}
	e.mu.Lock()
	var stale []session.PeerID
	for id, p := range e.peers {
		if now.Sub(p.lastRecv) > e.cfg.IdleTimeout {
			stale = append(stale, id)
		}
	}
	e.mu.Unlock()
	for _, id := range stale {
		e.dropPeer(id, "idle timeout")
	}
}

// sendHeartbeats keeps quiet links alive so the remote idle timer never
// fires while this endpoint has nothing to say.
func (e *Endpoint) sendHeartbeats(now time.Time) {
	if e.cfg.AutoHeartbeat <= 0 {
		return
	}
	for _, p := range e.snapshotPeers() {
		e.mu.Lock()
		due := now.Sub(p.lastSend) >= e.cfg.AutoHeartbeat
		e.mu.Unlock()
		if !due {
			continue
		}
		if err := e.write(p, frame.TypeHeartbeat, nil); err != nil {
			log.Debug().Str("peer", string(p.id)).Msgf("heartbeat write: %v", err)
			continue
		}
		observability.RecordHeartbeatSent(e.name)
	}
}

// PeerCount reports the current registry size for the status surface.
func (e *Endpoint) PeerCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.peers)
}

func (e *Endpoint) emit(ev session.Event) {
	select {
	case e.events <- ev:
	default:
		log.Warn().Str("kind", ev.Kind.String()).Msg("event queue full, dropping event")
	}
}
