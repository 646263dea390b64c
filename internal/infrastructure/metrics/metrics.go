package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vision-mcp/internal/domain/port"
)

// Recorder метрики запросов описания, у каждого экземпляра свой registry
type Recorder struct {
	registry  *prometheus.Registry
	requests  *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	fallbacks *prometheus.CounterVec
	describe  *prometheus.HistogramVec
}

// NewRecorder создаёт и регистрирует метрики
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vision_requests_total",
				Help: "Image description requests by operation and outcome.",
			},
			[]string{"operation", "outcome"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vision_request_duration_seconds",
				Help:    "Image description request latency in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		fallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vision_provider_fallbacks_total",
				Help: "Successful switches to the fallback vision provider.",
			},
			[]string{"from", "to"},
		),
		describe: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vision_describe_duration_seconds",
				Help:    "Vision provider call latency in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider"},
		),
	}
	r.registry.MustRegister(r.requests, r.latency, r.fallbacks, r.describe)
	return r
}

// ObserveRequest учитывает завершённый запрос
func (r *Recorder) ObserveRequest(operation, outcome string, elapsed time.Duration) {
	r.requests.WithLabelValues(operation, outcome).Inc()
	r.latency.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// ObserveDescribe учитывает длительность вызова провайдера
func (r *Recorder) ObserveDescribe(provider string, elapsed time.Duration) {
	r.describe.WithLabelValues(provider).Observe(elapsed.Seconds())
}

// ObserveFallback учитывает переход на запасной провайдер
func (r *Recorder) ObserveFallback(from, to string) {
	r.fallbacks.WithLabelValues(from, to).Inc()
}

// Registry для тестов и внешней регистрации
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler отдаёт метрики в текстовом формате Prometheus
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

var _ port.RequestRecorder = (*Recorder)(nil)
