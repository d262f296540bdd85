package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	bookingsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ticketbooth",
			Name:      "bookings_total",
			Help:      "Booking attempts by outcome.",
		},
		[]string{"outcome"},
	)

	seatsReleased = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ticketbooth",
			Name:      "seats_released_total",
			Help:      "Seats returned to inventory by the expiry reclaimer.",
		},
	)

	paymentDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "ticketbooth",
			Name:      "payment_duration_seconds",
			Help:      "Latency of payment gateway charges.",
			Buckets:   prometheus.DefBuckets,
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ticketbooth",
			Name:      "http_requests_total",
			Help:      "HTTP requests by path and status.",
		},
		[]string{"path", "status"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingsTotal, seatsReleased, paymentDuration, httpRequests)
	})
}

// IncBooking increments the booking counter for an outcome label
// (confirmed, conflict, declined, inconsistent, validation).
func IncBooking(outcome string) {
	bookingsTotal.WithLabelValues(outcome).Inc()
}

// AddSeatsReleased records seats the reclaimer returned to inventory.
func AddSeatsReleased(n int) {
	seatsReleased.Add(float64(n))
}

// ObservePayment records one gateway charge duration in seconds.
func ObservePayment(seconds float64) {
	paymentDuration.Observe(seconds)
}

// IncHTTP increments the request counter for a path/status pair.
func IncHTTP(path, status string) {
	httpRequests.WithLabelValues(path, status).Inc()
}
