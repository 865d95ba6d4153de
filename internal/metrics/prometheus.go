package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// prometheus default namespace
	namespace = "moonresp"

	// label keys
	command = "command"
	kind    = "kind"
)

// Metrics holds every collector the server updates. Each Metrics owns its registry,
// so tests can build as many as they need
type Metrics struct {
	registry *prometheus.Registry

	ConnectionsOnline prometheus.Gauge
	ConnectionsTotal  prometheus.Counter
	CommandCalls      *prometheus.CounterVec
	CommandDuration   *prometheus.HistogramVec
	FramesDecoded     *prometheus.CounterVec
	ProtocolErrors    *prometheus.CounterVec
	Keys              prometheus.Gauge
}

// New creates the collectors and registers them together with the Go runtime and process collectors
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.ConnectionsOnline = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connections_online",
			Help:      "The number of client connections currently open",
		})

	m.ConnectionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connections_total",
			Help:      "The number of client connections accepted",
		})

	m.CommandCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "command_calls_total",
			Help:      "The number of commands executed, by command name",
		}, []string{command})

	m.CommandDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "command_duration_seconds",
			Help:      "Time spent executing a command",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}, []string{command})

	m.FramesDecoded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_decoded_total",
			Help:      "The number of RESP frames decoded from clients, by value kind",
		}, []string{kind})

	m.ProtocolErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "protocol_errors_total",
			Help:      "The number of connections closed because of malformed input, by error kind",
		}, []string{kind})

	m.Keys = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "keys",
			Help:      "The number of keys in the store",
		})

	m.registry.MustRegister(
		m.ConnectionsOnline,
		m.ConnectionsTotal,
		m.CommandCalls,
		m.CommandDuration,
		m.FramesDecoded,
		m.ProtocolErrors,
		m.Keys,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Registry returns the registry the collectors live in
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
