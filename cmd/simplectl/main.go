package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danmuck/pulsectl/internal/logging"
	"github.com/danmuck/pulsectl/internal/observability"
	"github.com/danmuck/pulsectl/internal/protocol/liveness"
	"github.com/danmuck/pulsectl/internal/protocol/session"
	"github.com/danmuck/pulsectl/internal/scheduler"
	"github.com/danmuck/pulsectl/internal/transport/udpnet"
)

// simplectl is the unbounded variant: the client pings once a second
// forever and the server answers every ping with its uptime.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "simplectl: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		app      = flag.String("app", "simplectl", "node name")
		server   = flag.Bool("server", false, "run as server (listen) instead of client (connect)")
		addr     = flag.String("addr", "", "bind or dial address (host:port); defaults to the first local IP")
		port     = flag.Int("port", liveness.DefaultPort, "port used when building the default address")
		tickRate = flag.Int("tick-rate", scheduler.DefaultTickRate, "main loop ticks per second")
	)
	flag.Parse()

	logging.ConfigureRuntime()
	logger := observability.InitLogger(*app)

	target := *addr
	if target == "" {
		ip, err := session.FindLocalIP()
		if err != nil {
			return fmt.Errorf("resolve local address: %w", err)
		}
		target = net.JoinHostPort(ip.String(), strconv.Itoa(*port))
	}

	role := liveness.RoleConfig{
		IsServer: *server,
		Addr:     target,
	}
	if err := role.Validate(); err != nil {
		return err
	}

	endpoint := udpnet.NewEndpoint(*app, session.DefaultConfig())
	if err := liveness.Start(endpoint, role); err != nil {
		return err
	}
	defer endpoint.Close()

	startedAt := time.Now()
	emitter := liveness.NewUnboundedEmitter(*app, endpoint, *server)
	responder := liveness.NewUnboundedResponder(*app, endpoint, startedAt)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := scheduler.NewRunner(*tickRate)
	gate := scheduler.NewFixedStep(time.Second)
	runner.Add(func(now time.Time, delta time.Duration) {
		responder.Drain(endpoint.PollEvents())
	})
	runner.Add(func(now time.Time, delta time.Duration) {
		for range gate.Advance(delta) {
			emitter.Emit()
		}
	})

	logger.Info().
		Str("role", role.Role()).
		Str("addr", target).
		Msg("simplectl running")

	return runner.Run(ctx)
}
