// Command udpseqd runs the reliable-sequencing UDP front end: it binds
// a UDP socket, tracks per-peer remote/local sequence state, and serves
// Prometheus metrics alongside it.
package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"udpseq/internal/config"
	"udpseq/internal/hooks"
	"udpseq/internal/ingress"
	"udpseq/internal/logging"
	"udpseq/internal/metrics"
	"udpseq/internal/peer"
)

const version = "0.1.0"

func main() {
	logging.Banner("udpseqd", version)

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		logging.Fatal("loading config: %v", err)
	}
	logging.SetLevel(cfg.LogLevel)

	logging.Section("startup")
	logging.Info("listen=%s metrics=%s idle-timeout=%ds", cfg.ListenAddr, cfg.MetricsAddr, cfg.IdleTimeoutSeconds)

	udpAddr, err := net.ResolveUDPAddr("udp", cfg.ListenAddr)
	if err != nil {
		logging.Fatal("resolving listen address: %v", err)
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		logging.Fatal("binding UDP socket: %v", err)
	}

	h := hooks.NewManager()
	h.On(hooks.EventPeerConnected, func(e hooks.Event) {
		logging.Debug("hook: peer connected %s", e.Peer)
	})
	h.On(hooks.EventPeerReaped, func(e hooks.Event) {
		logging.Debug("hook: peer reaped %s", e.Peer)
	})
	h.On(hooks.EventPacketsDropped, func(e hooks.Event) {
		logging.Debug("hook: peer %s dropped %d packets", e.Peer, len(e.Dropped))
	})

	idleTimeout := time.Duration(cfg.IdleTimeoutSeconds) * time.Second
	registry := peer.NewRegistry(conn, h, idleTimeout)
	go registry.Run()

	loop := ingress.New(conn, registry)

	metricsCtx, cancelMetrics := context.WithCancel(context.Background())
	errCh := make(chan error, 2)
	go func() { errCh <- metrics.Serve(metricsCtx, cfg.MetricsAddr) }()
	go func() { errCh <- loop.Run() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logging.Error("fatal: %v", err)
		}
	case sig := <-sigCh:
		logging.Info("received signal %s, shutting down", sig)
	}

	cancelMetrics()
	registry.Stop()
	if err := loop.Stop(); err != nil {
		logging.Warn("closing listener: %v", err)
	}

	time.Sleep(1 * time.Second)
	logging.Success("shutdown complete")
}
