package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	EligibilityChecks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scheme_assist_eligibility_checks_total",
			Help: "Eligibility evaluations by outcome",
		},
		[]string{"status"},
	)

	EligibilityMatches = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scheme_assist_eligibility_matches",
			Help:    "Number of schemes returned per eligibility evaluation",
			Buckets: []float64{2, 3, 4, 5, 6, 7},
		},
	)

	SchemeSearches = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scheme_assist_scheme_searches_total",
			Help: "Catalog searches served",
		},
	)

	ChatReplies = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scheme_assist_chat_replies_total",
			Help: "Chat replies by matched topic",
		},
		[]string{"topic"},
	)

	ChatRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scheme_assist_chat_rejected_total",
			Help: "Chat sends rejected before processing",
		},
		[]string{"reason"},
	)

	ChatReplyDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scheme_assist_chat_reply_duration_seconds",
			Help:    "Time from user message to bot reply",
			Buckets: []float64{0.1, 0.5, 1, 1.5, 2, 5},
		},
	)

	ChatSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "scheme_assist_chat_sessions",
			Help: "Conversations currently held in memory",
		},
	)

	BookmarkOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scheme_assist_bookmark_operations_total",
			Help: "Bookmark mutations by operation and whether they changed the set",
		},
		[]string{"op", "result"},
	)

	StorageErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scheme_assist_storage_errors_total",
			Help: "Client storage failures by operation",
		},
		[]string{"op"},
	)

	BreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "scheme_assist_circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"name"},
	)

	VoiceEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scheme_assist_voice_events_total",
			Help: "Speech recognition and synthesis lifecycle events",
		},
		[]string{"component", "event"},
	)
)

var collectors = []prometheus.Collector{
	EligibilityChecks,
	EligibilityMatches,
	SchemeSearches,
	ChatReplies,
	ChatRejected,
	ChatReplyDuration,
	ChatSessions,
	BookmarkOps,
	StorageErrors,
	BreakerState,
	VoiceEvents,
}

// Init registers every collector with reg, or the default registry when nil.
func Init(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
