package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	paymentsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pix_charges_created_total",
			Help: "PIX charges opened at the provider.",
		},
	)

	paymentsByStatus = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pix_charges_finalized_total",
			Help: "PIX charge terminal transitions by status.",
		},
		[]string{"status"}, // paid | expired | failed
	)

	paidRevenueCents = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pix_paid_revenue_cents_total",
			Help: "Sum of confirmed charge amounts in cents.",
		},
	)

	withdrawalsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pix_withdrawals_created_total",
			Help: "Payout transfers requested at the provider.",
		},
	)
)

func init() {
	register(paymentsCreated, paymentsByStatus, paidRevenueCents, withdrawalsCreated)
}

func IncPaymentCreated()     { paymentsCreated.Inc() }
func IncWithdrawalCreated()  { withdrawalsCreated.Inc() }
func AddPaidRevenue(c int64) { paidRevenueCents.Add(float64(c)) }

func IncPaymentFinalized(status string) {
	paymentsByStatus.WithLabelValues(status).Inc()
}
