package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "timebudget"

type Metrics struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	transitions     *prometheus.CounterVec
	remainingBudget *prometheus.GaugeVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route template, method and status code.",
		}, []string{"route", "method", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route template.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "time_entry_transitions_total",
			Help:      "Time entry lifecycle changes by action.",
		}, []string{"action"}),
		remainingBudget: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "customer_remaining_budget",
			Help:      "Remaining budget per customer at the last recalculation.",
		}, []string{"customer_id"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.requestDuration,
		m.transitions,
		m.remainingBudget,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) CountTransition(action string) {
	m.transitions.WithLabelValues(action).Inc()
}

func (m *Metrics) SetRemainingBudget(customerId int, remaining float64) {
	m.remainingBudget.WithLabelValues(strconv.Itoa(customerId)).Set(remaining)
}

func (m *Metrics) ForgetCustomer(customerId int) {
	m.remainingBudget.DeleteLabelValues(strconv.Itoa(customerId))
}

// ObserveRequest records one served request. The route template is used as
// label so ids in paths do not explode cardinality.
func (m *Metrics) ObserveRequest(r *http.Request, status int, elapsed time.Duration) {
	route := "unmatched"
	if current := mux.CurrentRoute(r); current != nil {
		if tpl, err := current.GetPathTemplate(); err == nil {
			route = tpl
		}
	}
	m.requests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}
