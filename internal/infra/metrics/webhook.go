package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	webhookUpdates = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_updates_total",
			Help: "Inbound Telegram updates by routing outcome.",
		},
		[]string{"route"}, // start | callback | group_message | noop | unknown_bot
	)

	activationRedemptions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activation_redemptions_total",
			Help: "Activation code redemption attempts by result.",
		},
		[]string{"result"}, // activated | expired | unknown | error
	)
)

func init() {
	register(webhookUpdates, activationRedemptions)
}

func IncWebhookUpdate(route string) {
	webhookUpdates.WithLabelValues(route).Inc()
}

func IncActivationRedemption(result string) {
	activationRedemptions.WithLabelValues(result).Inc()
}
