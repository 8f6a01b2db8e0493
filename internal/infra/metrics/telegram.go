package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	telegramSends = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telegram_api_calls_total",
			Help: "Outbound Telegram Bot API calls by method and success.",
		},
		[]string{"method", "success"},
	)

	telegramLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "telegram_api_latency_ms",
			Help:    "Outbound Telegram Bot API latency distribution in milliseconds.",
			Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000, 5000},
		},
		[]string{"method"},
	)

	botCacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_config_cache_lookups_total",
			Help: "Bot-config cache lookups by outcome.",
		},
		[]string{"outcome"}, // hit | miss | error
	)
)

func init() {
	register(telegramSends, telegramLatencyMs, botCacheLookups)
}

func ObserveTelegramCall(method string, ok bool, elapsedMs float64) {
	success := "false"
	if ok {
		success = "true"
	}
	telegramSends.WithLabelValues(method, success).Inc()
	telegramLatencyMs.WithLabelValues(method).Observe(elapsedMs)
}

func IncBotCacheLookup(outcome string) {
	botCacheLookups.WithLabelValues(outcome).Inc()
}
