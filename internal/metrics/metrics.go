// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry     *prometheus.Registry
	IndexTotal   *prometheus.CounterVec
	AskTotal     *prometheus.CounterVec
	SessionsOpen prometheus.Counter
	ModelLatency *prometheus.HistogramVec
	FetchLatency prometheus.Histogram
}

// New registers every collector on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		IndexTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "webqa_index_requests_total",
			Help: "Index requests by outcome.",
		}, []string{"status"}),
		AskTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "webqa_ask_requests_total",
			Help: "Ask requests by outcome and whether a session was used.",
		}, []string{"status", "session"}),
		SessionsOpen: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "webqa_sessions_started_total",
			Help: "Chat sessions started.",
		}),
		ModelLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "webqa_model_latency_seconds",
			Help:    "Question-answering model latency.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"status"}),
		FetchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "webqa_fetch_latency_seconds",
			Help:    "Page fetch latency during indexing.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(
		m.IndexTotal, m.AskTotal, m.SessionsOpen, m.ModelLatency, m.FetchLatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveModel records one model call.
func (m *Metrics) ObserveModel(d time.Duration, err error) {
	m.ModelLatency.WithLabelValues(outcome(err)).Observe(d.Seconds())
}

// ObserveFetch records one page fetch.
func (m *Metrics) ObserveFetch(d time.Duration) {
	m.FetchLatency.Observe(d.Seconds())
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
