package observer

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricsEnabled = true

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wabot_admin_http_requests_total",
			Help: "Total HTTP requests, labeled by route and status.",
		},
		[]string{"method", "route", "status"},
	)
	HTTPRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wabot_admin_http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		},
		[]string{"method", "route"},
	)

	CampaignsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wabot_admin_campaigns_total",
			Help: "Campaign send attempts, labeled by outcome (sent, rejected, upstream_error, error).",
		},
		[]string{"outcome"},
	)
	CampaignRecipientsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wabot_admin_campaign_recipients_total",
			Help: "Recipients forwarded to the campaign webhook.",
		},
	)

	ChangeEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wabot_admin_change_events_total",
			Help: "Change events received from the database feed, labeled by table and operation.",
		},
		[]string{"table", "op"},
	)
	RealtimeSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "wabot_admin_realtime_subscribers",
			Help: "Currently connected realtime feed subscribers.",
		},
	)

	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wabot_admin_cache_lookups_total",
			Help: "Query cache lookups, labeled by result (hit, miss, error).",
		},
		[]string{"result"},
	)

	BotMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wabot_admin_bot_messages_total",
			Help: "WhatsApp bot messages, labeled by direction (inbound, outbound, dropped).",
		},
		[]string{"direction"},
	)
)

// SetMetricsEnabled toggles metric collection.
func SetMetricsEnabled(enabled bool) {
	metricsEnabled = enabled
}

// ObserveHTTPRequest records one served request.
func ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	if !metricsEnabled {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDurationSeconds.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// IncCampaign records a campaign attempt outcome.
func IncCampaign(outcome string, recipients int) {
	if !metricsEnabled {
		return
	}
	CampaignsTotal.WithLabelValues(outcome).Inc()
	if outcome == "sent" {
		CampaignRecipientsTotal.Add(float64(recipients))
	}
}

// IncChangeEvent records one change event from the feed.
func IncChangeEvent(table, op string) {
	if !metricsEnabled {
		return
	}
	ChangeEventsTotal.WithLabelValues(table, op).Inc()
}

// AddRealtimeSubscribers adjusts the realtime subscriber gauge.
func AddRealtimeSubscribers(delta float64) {
	if !metricsEnabled {
		return
	}
	RealtimeSubscribers.Add(delta)
}

// IncCacheLookup records a cache lookup result.
func IncCacheLookup(result string) {
	if !metricsEnabled {
		return
	}
	CacheLookupsTotal.WithLabelValues(result).Inc()
}

// IncBotMessage records a bot message by direction.
func IncBotMessage(direction string) {
	if !metricsEnabled {
		return
	}
	BotMessagesTotal.WithLabelValues(direction).Inc()
}
