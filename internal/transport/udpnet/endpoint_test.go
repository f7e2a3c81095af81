package udpnet

import (
	"errors"
	"net"
	"testing"
	"time"

	"github.com/danmuck/pulsectl/internal/protocol/frame"
	"github.com/danmuck/pulsectl/internal/protocol/session"
	"github.com/danmuck/pulsectl/internal/testutil/testlog"
)

var _ session.Endpoint = (*Endpoint)(nil)

func TestSendUnknownPeer(t *testing.T) {
	testlog.Start(t)
	e := NewEndpoint("test", session.Config{})
	err := e.Send("203.0.113.9:14191", []byte("PONG"))
	if !errors.Is(err, session.ErrPeerUnknown) {
		t.Fatalf("expected ErrPeerUnknown, got %v", err)
	}
}

func TestPollEventsEmptyWithoutTraffic(t *testing.T) {
	testlog.Start(t)
	e := NewEndpoint("test", session.Config{})
	if events := e.PollEvents(); len(events) != 0 {
		t.Fatalf("unexpected events: %+v", events)
	}
}

func TestTouchPeerAnnouncesOnce(t *testing.T) {
	testlog.Start(t)
	e := NewEndpoint("test", session.Config{})
	remote := &net.UDPAddr{IP: net.IPv4(192, 0, 2, 1), Port: 14191}

	_, fresh := e.touchPeer(remote, time.Now())
	if !fresh {
		t.Fatalf("first touch must announce")
	}
	_, fresh = e.touchPeer(remote, time.Now())
	if fresh {
		t.Fatalf("second touch must not announce")
	}

	events := e.PollEvents()
	if len(events) != 1 || events[0].Kind != session.EventConnected {
		t.Fatalf("unexpected events: %+v", events)
	}
	if e.PeerCount() != 1 {
		t.Fatalf("unexpected peer count: %d", e.PeerCount())
	}
}

func TestExpireIdlePeers(t *testing.T) {
	testlog.Start(t)
	e := NewEndpoint("test", session.Config{IdleTimeout: time.Second})
	remote := &net.UDPAddr{IP: net.IPv4(192, 0, 2, 1), Port: 14191}
	now := time.Now()
	e.touchPeer(remote, now)
	e.PollEvents() // discard Connected

	e.expireIdlePeers(now.Add(500 * time.Millisecond))
	if e.PeerCount() != 1 {
		t.Fatalf("peer expired too early")
	}

	e.expireIdlePeers(now.Add(1500 * time.Millisecond))
	if e.PeerCount() != 0 {
		t.Fatalf("peer not expired")
	}
	events := e.PollEvents()
	if len(events) != 1 || events[0].Kind != session.EventDisconnected {
		t.Fatalf("unexpected events: %+v", events)
	}
}

func TestExpireIdlePeersDisabledByZeroTimeout(t *testing.T) {
	testlog.Start(t)
	e := NewEndpoint("test", session.Config{})
	remote := &net.UDPAddr{IP: net.IPv4(192, 0, 2, 1), Port: 14191}
	now := time.Now()
	e.touchPeer(remote, now)
	e.expireIdlePeers(now.Add(24 * time.Hour))
	if e.PeerCount() != 1 {
		t.Fatalf("peer expired despite disabled idle timeout")
	}
}

func TestInboundHeartbeatRefreshesPeerWithoutPacketEvent(t *testing.T) {
	testlog.Start(t)
	e := NewEndpoint("test", session.Config{IdleTimeout: time.Second})
	remote := &net.UDPAddr{IP: net.IPv4(192, 0, 2, 1), Port: 14191}
	now := time.Now()
	e.touchPeer(remote, now)
	e.PollEvents() // discard Connected

	e.now = func() time.Time { return now.Add(900 * time.Millisecond) }
	e.handleDatagram(remote, frame.New(frame.TypeHeartbeat, 7, nil))

	if events := e.PollEvents(); len(events) != 0 {
		t.Fatalf("heartbeat must not surface events: %+v", events)
	}
	e.expireIdlePeers(now.Add(1500 * time.Millisecond))
	if e.PeerCount() != 1 {
		t.Fatalf("heartbeat did not refresh the idle timer")
	}
	e.expireIdlePeers(now.Add(2500 * time.Millisecond))
	if e.PeerCount() != 0 {
		t.Fatalf("peer must still expire once the refreshed timer lapses")
	}
}

func TestAutoHeartbeatKeepsQuietLinkAlive(t *testing.T) {
	testlog.Start(t)
	server := NewEndpoint("hb-server", session.Config{IdleTimeout: 5 * time.Second})
	if err := server.Listen("127.0.0.1:0"); err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer server.Close()

	client := NewEndpoint("hb-client", session.Config{AutoHeartbeat: 50 * time.Millisecond})
	if err := client.Connect(server.LocalAddr()); err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer client.Close()

	waitFor(t, server, session.EventConnected, 2*time.Second)
	waitFor(t, client, session.EventConnected, 2*time.Second)

	var before time.Time
	server.mu.Lock()
	for _, p := range server.peers {
		before = p.lastRecv
	}
	server.mu.Unlock()

	refreshed := false
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		for _, ev := range server.PollEvents() {
			if ev.Kind == session.EventPacket {
				t.Fatalf("heartbeat surfaced as packet: %+v", ev)
			}
		}
		server.mu.Lock()
		for _, p := range server.peers {
			if p.lastRecv.After(before) {
				refreshed = true
			}
		}
		server.mu.Unlock()
		if refreshed {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if !refreshed {
		t.Fatalf("no heartbeat arrived on the quiet link")
	}
	if server.PeerCount() != 1 {
		t.Fatalf("unexpected peer count: %d", server.PeerCount())
	}
}

// waitFor polls the endpoint until an event of the wanted kind arrives.
func waitFor(t *testing.T, e *Endpoint, kind session.EventKind, timeout time.Duration) session.Event {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		for _, ev := range e.PollEvents() {
			if ev.Kind == kind {
				return ev
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("no %s event within %v", kind, timeout)
	return session.Event{}
}

func TestLoopbackPingPongExchange(t *testing.T) {
	testlog.Start(t)
	server := NewEndpoint("server", session.Config{})
	if err := server.Listen("127.0.0.1:0"); err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer server.Close()

	client := NewEndpoint("client", session.Config{})
	if err := client.Connect(server.LocalAddr()); err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer client.Close()

	waitFor(t, server, session.EventConnected, 2*time.Second)
	waitFor(t, client, session.EventConnected, 2*time.Second)

	client.Broadcast([]byte("PING"))
	ev := waitFor(t, server, session.EventPacket, 2*time.Second)
	if string(ev.Payload) != "PING" {
		t.Fatalf("unexpected payload: %q", ev.Payload)
	}

	if err := server.Send(ev.Peer, []byte("PONG")); err != nil {
		t.Fatalf("send: %v", err)
	}
	ev = waitFor(t, client, session.EventPacket, 2*time.Second)
	if string(ev.Payload) != "PONG" {
		t.Fatalf("unexpected payload: %q", ev.Payload)
	}
}

func TestHelloPayloadRoundTrip(t *testing.T) {
	testlog.Start(t)
	payload, err := helloPayload("pulse.client")
	if err != nil {
		t.Fatalf("build hello: %v", err)
	}
	name, err := parseHello(payload)
	if err != nil {
		t.Fatalf("parse hello: %v", err)
	}
	if name != "pulse.client" {
		t.Fatalf("unexpected name: %q", name)
	}
}

func TestParseHelloRejectsGarbage(t *testing.T) {
	testlog.Start(t)
	if _, err := parseHello([]byte{0x01}); err == nil {
		t.Fatalf("expected decode error")
	}
}
