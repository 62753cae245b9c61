// Package metrics exposes buffer transfer counters to Prometheus.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fdring/pkg/circbuff"
)

const namespace = "fdring"

// Metrics holds the collectors for one relay. A nil *Metrics records nothing.
type Metrics struct {
	bytesIn  prometheus.Counter
	bytesOut prometheus.Counter
	stops    *prometheus.CounterVec
	size     prometheus.Gauge

	registry *prometheus.Registry
}

// New creates the collectors and registers them on a private registry.
func New() *Metrics {
	m := &Metrics{
		bytesIn: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "relay",
			Name:      "bytes_in_total",
			Help:      "Bytes pulled from the source descriptor into the buffer",
		}),
		bytesOut: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "relay",
			Name:      "bytes_out_total",
			Help:      "Bytes pushed from the buffer to the sink descriptor",
		}),
		stops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "relay",
			Name:      "stops_total",
			Help:      "Descriptor transfers by direction and stop reason",
		}, []string{"op", "stop"}),
		size: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "buffer",
			Name:      "size",
			Help:      "Bytes currently held in the buffer",
		}),
		registry: prometheus.NewRegistry(),
	}
	m.registry.MustRegister(m.bytesIn, m.bytesOut, m.stops, m.size)
	return m
}

// ObserveFill records a ReadFromDescriptor result and the buffer size after it.
func (m *Metrics) ObserveFill(t circbuff.Transfer, size int) {
	if m == nil {
		return
	}
	m.bytesIn.Add(float64(t.N))
	m.stops.WithLabelValues("fill", t.Stop.String()).Inc()
	m.size.Set(float64(size))
}

// ObserveFlush records a WriteToDescriptor result and the buffer size after it.
func (m *Metrics) ObserveFlush(t circbuff.Transfer, size int) {
	if m == nil {
		return
	}
	m.bytesOut.Add(float64(t.N))
	m.stops.WithLabelValues("flush", t.Stop.String()).Inc()
	m.size.Set(float64(size))
}

// Registry returns the private registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// Serve exposes /metrics on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("serving metrics", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
