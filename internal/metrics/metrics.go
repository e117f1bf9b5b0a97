package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	bookingCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "lessonbook",
			Name:      "booking_created_total",
			Help:      "Count of booking requests stored.",
		},
	)

	bookingCancelled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "lessonbook",
			Name:      "booking_cancelled_total",
			Help:      "Count of bookings cancelled by their owners.",
		},
	)

	adminDecision = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lessonbook",
			Name:      "admin_decision_total",
			Help:      "Count of admin decisions over bookings.",
		},
		[]string{"decision"},
	)

	slotRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lessonbook",
			Name:      "slot_rejected_total",
			Help:      "Count of slot submissions rejected by reason.",
		},
		[]string{"reason"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lessonbook",
			Name:      "http_requests_total",
			Help:      "Count of HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingCreated, bookingCancelled, adminDecision, slotRejected, httpRequests)
	})
}

func IncBookingCreated() {
	bookingCreated.Inc()
}

func IncBookingCancelled() {
	bookingCancelled.Inc()
}

func IncAdminDecision(decision string) {
	adminDecision.WithLabelValues(decision).Inc()
}

func IncSlotRejected(reason string) {
	slotRejected.WithLabelValues(reason).Inc()
}

func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}
