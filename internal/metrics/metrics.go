// Package metrics exposes Prometheus counters for the payment workflow.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PaymentsVerified = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hallbook_payments_verified_total",
		Help: "Payment verifications processed, by outcome.",
	}, []string{"result"})

	LedgerEntriesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hallbook_ledger_entries_created_total",
		Help: "Revenue ledger entries inserted.",
	})

	LedgerEntriesReversed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hallbook_ledger_entries_reversed_total",
		Help: "Revenue ledger entries reversed by refunds.",
	})

	GatewayErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hallbook_gateway_errors_total",
		Help: "Payment gateway calls that failed.",
	})

	NotificationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hallbook_notification_failures_total",
		Help: "Post-payment side effects that failed, by channel.",
	}, []string{"channel"})

	RefundsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hallbook_refunds_processed_total",
		Help: "Refund requests accepted.",
	})
)

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
