package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics expõe contadores dos fluxos de agendamento. *Metrics nil não faz nada.
type Metrics struct {
	toolCalls        *prometheus.CounterVec
	calendarFailures *prometheus.CounterVec
	bookings         *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		toolCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "tools",
			Name:      "calls_total",
			Help:      "Tool invocations by outcome (ok, info, error)",
		}, []string{"tool", "outcome"}),
		calendarFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "calendar",
			Name:      "failures_total",
			Help:      "Calendar backend calls that failed",
		}, []string{"operation"}),
		bookings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "bookings",
			Name:      "total",
			Help:      "Booking attempts by result",
		}, []string{"result"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.toolCalls, m.calendarFailures, m.bookings)
	return m
}

func (m *Metrics) ObserveToolCall(tool, outcome string) {
	if m == nil {
		return
	}
	m.toolCalls.WithLabelValues(tool, outcome).Inc()
}

func (m *Metrics) ObserveCalendarFailure(operation string) {
	if m == nil {
		return
	}
	m.calendarFailures.WithLabelValues(operation).Inc()
}

// ObserveBooking registra o resultado (booked, calendar_failed, partial_failure ou rejected).
func (m *Metrics) ObserveBooking(result string) {
	if m == nil {
		return
	}
	m.bookings.WithLabelValues(result).Inc()
}
