// Package observability provides Prometheus metrics for provider calls and
// contract violations.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/modelgate/modelgate/pkg/api"
	"github.com/modelgate/modelgate/pkg/provider"
)

// LLMBuckets defines histogram buckets suited for LLM inference latencies,
// ranging from 100ms to 120s.
var LLMBuckets = []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}

var (
	// CallsTotal counts backend calls by provider, model, and outcome.
	CallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "modelgate_provider_calls_total",
			Help: "Backend calls",
		},
		[]string{"provider", "model", "status"},
	)

	// CallLatency records backend call latency in seconds.
	CallLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "modelgate_provider_latency_seconds",
			Help:    "Backend call latency",
			Buckets: LLMBuckets,
		},
		[]string{"provider", "model"},
	)

	// TokensTotal counts tokens processed by direction (input/output).
	TokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "modelgate_provider_tokens_total",
			Help: "Token count",
		},
		[]string{"provider", "model", "direction"},
	)

	// ViolationsTotal counts contract violations by provider and kind.
	ViolationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "modelgate_contract_violations_total",
			Help: "Provider contract violations",
		},
		[]string{"provider", "kind"},
	)
)

func init() {
	prometheus.MustRegister(
		CallsTotal,
		CallLatency,
		TokensTotal,
		ViolationsTotal,
	)
}

// Metrics records call outcomes into the package collectors. It implements
// provider.Observer and can be attached with provider.WithObserver.
type Metrics struct{}

// Ensure Metrics implements provider.Observer at compile time.
var _ provider.Observer = (*Metrics)(nil)

// NewMetrics returns an observer backed by the registered collectors.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// ObserveCall records one backend invocation.
func (m *Metrics) ObserveCall(providerName, model string, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	CallsTotal.WithLabelValues(providerName, model, status).Inc()
	CallLatency.WithLabelValues(providerName, model).Observe(d.Seconds())
}

// ObserveViolation records a contract violation.
func (m *Metrics) ObserveViolation(providerName string, kind provider.ViolationKind) {
	ViolationsTotal.WithLabelValues(providerName, string(kind)).Inc()
}

// ObserveUsage records token usage reported by the backend.
func (m *Metrics) ObserveUsage(providerName, model string, usage api.Usage) {
	TokensTotal.WithLabelValues(providerName, model, "input").Add(float64(usage.InputTokens))
	TokensTotal.WithLabelValues(providerName, model, "output").Add(float64(usage.OutputTokens))
}
