package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "travelia",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	ordersPlaced = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "travelia",
			Name:      "orders_placed_total",
			Help:      "Booking/transaction pairs created.",
		},
	)

	verificationUpdates = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "travelia",
			Name:      "verification_updates_total",
			Help:      "Verification status updates by propagation outcome.",
		},
		[]string{"propagation"},
	)

	storeWriteFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "travelia",
			Name:      "store_write_failures_total",
			Help:      "Document store writes that were logged and dropped.",
		},
		[]string{"collection"},
	)

	storeReadFaults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "travelia",
			Name:      "store_read_faults_total",
			Help:      "Document store reads degraded to an empty collection.",
		},
		[]string{"collection"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			httpRequests,
			ordersPlaced,
			verificationUpdates,
			storeWriteFailures,
			storeReadFaults,
		)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

// IncOrderPlaced counts a successfully created booking/transaction pair.
func IncOrderPlaced() {
	ordersPlaced.Inc()
}

// IncVerificationUpdate counts a status update; propagation is "full" when
// the linked booking was updated too, "transaction_only" otherwise.
func IncVerificationUpdate(propagation string) {
	verificationUpdates.WithLabelValues(propagation).Inc()
}

// IncStoreWriteFailure counts a dropped collection write.
func IncStoreWriteFailure(collection string) {
	storeWriteFailures.WithLabelValues(collection).Inc()
}

// IncStoreReadFault counts a read that degraded to empty.
func IncStoreReadFault(collection string) {
	storeReadFaults.WithLabelValues(collection).Inc()
}
