package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the booking core counters. A nil *Metrics is valid and
// records nothing, which keeps constructors usable in tests.
type Metrics struct {
	// Booking
	BookingOutcomes *prometheus.CounterVec
	Cancellations   *prometheus.CounterVec

	// Gateway
	GatewayFallbacks *prometheus.CounterVec
	GatewayWrites    *prometheus.CounterVec

	// Hub / mirror
	HubDeliveries  *prometheus.CounterVec
	ListenerPanics prometheus.Counter
	MirrorWrites   *prometheus.CounterVec
}

// New registers the metrics on reg. Pass prometheus.DefaultRegisterer in
// main and a fresh registry in tests.
func New(reg prometheus.Registerer, namespace string) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		BookingOutcomes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "booking",
			Name:      "outcomes_total",
			Help:      "Booking attempts by result (confirmed, pending_sync or a rejection code)",
		}, []string{"result"}),
		Cancellations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "booking",
			Name:      "cancellations_total",
			Help:      "Cancellations by where they were applied",
		}, []string{"scope"}),

		GatewayFallbacks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "fallbacks_total",
			Help:      "Fetches served from the local mirror after a remote failure",
		}, []string{"entity"}),
		GatewayWrites: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "writes_total",
			Help:      "Remote writes by table and status",
		}, []string{"table", "status"}),

		HubDeliveries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "hub",
			Name:      "deliveries_total",
			Help:      "Change notifications fanned out, by source",
		}, []string{"source"}),
		ListenerPanics: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "hub",
			Name:      "listener_panics_total",
			Help:      "Listener invocations that panicked and were recovered",
		}),
		MirrorWrites: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mirror",
			Name:      "writes_total",
			Help:      "Mirror writes by key and whether the stored bytes changed",
		}, []string{"key", "changed"}),
	}
}

func (m *Metrics) Booking(result string) {
	if m == nil {
		return
	}
	m.BookingOutcomes.WithLabelValues(result).Inc()
}

func (m *Metrics) Cancellation(scope string) {
	if m == nil {
		return
	}
	m.Cancellations.WithLabelValues(scope).Inc()
}

func (m *Metrics) Fallback(entity string) {
	if m == nil {
		return
	}
	m.GatewayFallbacks.WithLabelValues(entity).Inc()
}

func (m *Metrics) Write(table string, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.GatewayWrites.WithLabelValues(table, status).Inc()
}

func (m *Metrics) Delivery(source string) {
	if m == nil {
		return
	}
	m.HubDeliveries.WithLabelValues(source).Inc()
}

func (m *Metrics) Panic() {
	if m == nil {
		return
	}
	m.ListenerPanics.Inc()
}

func (m *Metrics) MirrorWrite(key string, changed bool) {
	if m == nil {
		return
	}
	label := "false"
	if changed {
		label = "true"
	}
	m.MirrorWrites.WithLabelValues(key, label).Inc()
}
