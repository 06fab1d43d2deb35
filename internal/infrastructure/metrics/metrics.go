package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the marketplace.
// All methods are safe on a nil receiver.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP latency by method, route template and status class
	RequestDuration *prometheus.HistogramVec

	// Wizard step submissions by flow, step and outcome
	WizardSteps *prometheus.CounterVec

	// Rejected uploads by field and reason
	UploadRejections *prometheus.CounterVec

	// Admin decisions by target (seller_profile, rider_documents, product, ...) and decision
	ReviewDecisions *prometheus.CounterVec

	// Orders placed
	OrdersPlaced prometheus.Counter
}

// New creates a Metrics instance on its own registry, including the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "agrimarket_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by method, route and status class",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method", "route", "status"}),

		WizardSteps: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "agrimarket_registration_steps_total",
			Help: "Registration wizard step submissions by flow, step and outcome",
		}, []string{"flow", "step", "outcome"}),

		UploadRejections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "agrimarket_upload_rejections_total",
			Help: "Rejected document uploads by field and reason",
		}, []string{"field", "reason"}),

		ReviewDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "agrimarket_review_decisions_total",
			Help: "Admin review decisions by target and decision",
		}, []string{"target", "decision"}),

		OrdersPlaced: factory.NewCounter(prometheus.CounterOpts{
			Name: "agrimarket_orders_placed_total",
			Help: "Total number of orders placed at checkout",
		}),
	}
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m != nil {
		m.RequestDuration.WithLabelValues(method, route, statusClass(status)).Observe(d.Seconds())
	}
}

func (m *Metrics) IncrementWizardStep(flow string, step int, outcome string) {
	if m != nil {
		m.WizardSteps.WithLabelValues(flow, stepLabel(step), outcome).Inc()
	}
}

func (m *Metrics) IncrementUploadRejection(field, reason string) {
	if m != nil {
		m.UploadRejections.WithLabelValues(field, reason).Inc()
	}
}

func (m *Metrics) IncrementReviewDecision(target, decision string) {
	if m != nil {
		m.ReviewDecisions.WithLabelValues(target, decision).Inc()
	}
}

func (m *Metrics) IncrementOrdersPlaced() {
	if m != nil {
		m.OrdersPlaced.Inc()
	}
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

func stepLabel(step int) string {
	if step < 1 || step > 9 {
		return "other"
	}
	return strconv.Itoa(step)
}
