// Package metrics exposes udpseq's runtime counters over Prometheus'
// standard text-exposition format on a dedicated /metrics endpoint.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ConnectionsActive is the number of peers with a live connection
	// right now.
	ConnectionsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "udpseq_connections_active",
		Help: "Number of peer connections currently tracked.",
	})

	// ConnectionsCreatedTotal counts connections created for remote
	// addresses with no live connection, including addresses seen again
	// after a reap.
	ConnectionsCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "udpseq_connections_created_total",
		Help: "Total connections created for new peer addresses.",
	})

	// ConnectionsReapedTotal counts connections torn down after their
	// idle timeout elapsed.
	ConnectionsReapedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "udpseq_connections_reaped_total",
		Help: "Total connections reaped after idling out.",
	})

	// PacketsDroppedTotal counts local sequence numbers that aged out of
	// a peer's ack window without ever being acknowledged.
	PacketsDroppedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "udpseq_packets_dropped_total",
		Help: "Total outgoing sequence numbers considered dropped by a peer.",
	})

	// DecodeErrorsTotal counts datagrams that failed header decoding.
	DecodeErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "udpseq_decode_errors_total",
		Help: "Total inbound datagrams rejected during header decoding.",
	})
)

func init() {
	prometheus.MustRegister(
		ConnectionsActive,
		ConnectionsCreatedTotal,
		ConnectionsReapedTotal,
		PacketsDroppedTotal,
		DecodeErrorsTotal,
	)
}

// Serve starts an HTTP server exposing /metrics on addr and runs it
// until ctx is canceled.
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
