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

	"github.com/danmuck/pulsectl/internal/admin"
	"github.com/danmuck/pulsectl/internal/logging"
	"github.com/danmuck/pulsectl/internal/observability"
	"github.com/danmuck/pulsectl/internal/protocol/liveness"
	"github.com/danmuck/pulsectl/internal/protocol/session"
	"github.com/danmuck/pulsectl/internal/scheduler"
	"github.com/danmuck/pulsectl/internal/transport/udpnet"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "pulsectl: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath    = flag.String("config", "", "path to TOML settings file")
		app           = flag.String("app", "pulsectl", "node name")
		server        = flag.Bool("server", false, "run as server (listen) instead of client (connect)")
		addr          = flag.String("addr", "", "bind or dial address (host:port); defaults to the first local IP")
		port          = flag.Int("port", liveness.DefaultPort, "port used when building the default address")
		pings         = flag.Uint("pings", 10, "ping budget before emission stops")
		pongs         = flag.Uint("pongs", 10, "pong budget before replies stop")
		idleTimeout   = flag.Duration("idle-timeout", 5*time.Second, "drop peers silent for this long (0 disables)")
		autoHeartbeat = flag.Duration("auto-heartbeat", time.Second, "keepalive interval toward idle peers (0 disables)")
		tickRate      = flag.Int("tick-rate", scheduler.DefaultTickRate, "main loop ticks per second")
		adminAddr     = flag.String("admin-addr", "", "serve admin HTTP on this address (empty disables)")
	)
	flag.Parse()

	logging.ConfigureRuntime()

	cfg := defaultRunConfig()
	cfg.Server = *server
	cfg.IdleTimeout = *idleTimeout
	cfg.AutoHeartbeat = *autoHeartbeat
	if *configPath != "" {
		loaded, err := loadRunConfig(*configPath, cfg)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	// Explicit flags win over the settings file.
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["app"] {
		cfg.App = *app
	}
	if set["server"] {
		cfg.Server = *server
	}
	if set["addr"] {
		cfg.Addr = *addr
	}
	if set["port"] {
		cfg.Port = *port
	}
	if set["pings"] {
		cfg.Pings = *pings
	}
	if set["pongs"] {
		cfg.Pongs = *pongs
	}
	if set["idle-timeout"] {
		cfg.IdleTimeout = *idleTimeout
	}
	if set["auto-heartbeat"] {
		cfg.AutoHeartbeat = *autoHeartbeat
	}
	if set["tick-rate"] {
		cfg.TickRate = *tickRate
	}
	if set["admin-addr"] {
		cfg.AdminAddr = *adminAddr
	}

	if cfg.Addr == "" {
		ip, err := session.FindLocalIP()
		if err != nil {
			return fmt.Errorf("resolve local address: %w", err)
		}
		cfg.Addr = net.JoinHostPort(ip.String(), strconv.Itoa(cfg.Port))
	}

	logger := observability.InitLogger(cfg.App)

	role := liveness.RoleConfig{
		IsServer:      cfg.Server,
		IdleTimeout:   cfg.IdleTimeout,
		AutoHeartbeat: cfg.AutoHeartbeat,
		PingBudget:    cfg.Pings,
		PongBudget:    cfg.Pongs,
		Addr:          cfg.Addr,
	}
	if err := role.Validate(); err != nil {
		return err
	}

	sessCfg := session.Config{
		IdleTimeout:   cfg.IdleTimeout,
		AutoHeartbeat: cfg.AutoHeartbeat,
	}.WithDefaults()
	endpoint := udpnet.NewEndpoint(cfg.App, sessCfg)

	if err := liveness.Start(endpoint, role); err != nil {
		return err
	}
	defer endpoint.Close()

	counter := liveness.NewCounter(cfg.Pings, cfg.Pongs)
	emitter := liveness.NewEmitter(cfg.App, endpoint, counter)
	responder := liveness.NewResponder(cfg.App, endpoint, counter)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startedAt := time.Now()
	if cfg.AdminAddr != "" {
		observability.RegisterMetrics()
		source := func() admin.Status {
			snap := counter.Snapshot()
			return admin.Status{
				App:            cfg.App,
				Role:           role.Role(),
				RemainingPings: snap.RemainingPings,
				RemainingPongs: snap.RemainingPongs,
				Peers:          endpoint.PeerCount(),
				UptimeSeconds:  time.Since(startedAt).Seconds(),
			}
		}
		srv := admin.NewServer(cfg.App, cfg.AdminAddr, source, logger, cfg.CorsOrigins)
		go func() {
			if err := srv.Run(ctx); err != nil {
				logger.Warn().Err(err).Msg("admin server stopped")
			}
		}()
	}

	runner := scheduler.NewRunner(cfg.TickRate)
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
		Str("addr", cfg.Addr).
		Uint("pings", cfg.Pings).
		Uint("pongs", cfg.Pongs).
		Msg("pulsectl running")

	return runner.Run(ctx)
}
