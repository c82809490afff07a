package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Metrics holds the collectors for one process. A nil *Metrics is valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	Requests  *prometheus.CounterVec
	Latency   *prometheus.HistogramVec
	Refreshes prometheus.Counter
	Stale     prometheus.Counter
	Alerts    *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gainers_api_requests_total",
				Help: "Quote API requests by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		Latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gainers_api_request_duration_seconds",
				Help:    "Quote API request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		Refreshes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "gainers_refreshes_total",
				Help: "Quote refreshes triggered",
			}),
		Stale: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "gainers_stale_responses_total",
				Help: "Responses dropped because a newer refresh superseded them",
			}),
		Alerts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gainers_alerts_total",
				Help: "Alerts raised by reason",
			},
			[]string{"reason"},
		),
	}
	m.Registry.MustRegister(m.Requests, m.Latency, m.Refreshes, m.Stale, m.Alerts)
	return m
}

func (m *Metrics) ObserveRequest(kind, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(kind, outcome).Inc()
	m.Latency.WithLabelValues(kind).Observe(d.Seconds())
}

func (m *Metrics) IncRefresh() {
	if m == nil {
		return
	}
	m.Refreshes.Inc()
}

func (m *Metrics) IncStale() {
	if m == nil {
		return
	}
	m.Stale.Inc()
}

func (m *Metrics) IncAlert(reason string) {
	if m == nil {
		return
	}
	m.Alerts.WithLabelValues(reason).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string, log *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("metrics listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
