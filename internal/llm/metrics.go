package llm

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsProvider counts LLM requests and observes their latency.
type MetricsProvider struct {
	inner    Provider
	provider string
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	tokens   *prometheus.CounterVec
}

// WithMetrics wraps a Provider with Prometheus instrumentation registered
// on reg. Wrapping several providers against one registry shares the
// collectors.
func WithMetrics(p Provider, provider string, reg prometheus.Registerer) Provider {
	m := &MetricsProvider{
		inner:    p,
		provider: provider,
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chemmaster_llm_requests_total",
				Help: "Total number of LLM requests",
			},
			[]string{"provider", "purpose", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "chemmaster_llm_request_duration_seconds",
				Help:    "Duration of LLM requests",
				Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"provider", "purpose"},
		),
		tokens: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chemmaster_llm_tokens_total",
				Help: "Tokens consumed by LLM requests",
			},
			[]string{"provider", "direction"},
		),
	}
	m.requests = register(reg, m.requests)
	m.duration = register(reg, m.duration)
	m.tokens = register(reg, m.tokens)
	return m
}

// register registers c on reg, returning the already registered
// collector when an identical one exists.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

func (m *MetricsProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	resp, err := m.inner.Generate(ctx, req)

	status := "ok"
	if err != nil {
		status = "error"
	}
	m.requests.WithLabelValues(m.provider, purpose, status).Inc()
	m.duration.WithLabelValues(m.provider, purpose).Observe(time.Since(start).Seconds())
	if resp != nil {
		m.tokens.WithLabelValues(m.provider, "input").Add(float64(resp.Usage.InputTokens))
		m.tokens.WithLabelValues(m.provider, "output").Add(float64(resp.Usage.OutputTokens))
	}

	return resp, err
}

func (m *MetricsProvider) ModelID() string {
	return m.inner.ModelID()
}
