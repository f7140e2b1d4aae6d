package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TicketRedemptions counts redemption attempts by outcome
	TicketRedemptions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_redemptions_total",
			Help: "Ticket redemption attempts by outcome",
		},
		[]string{"outcome"}, // redeemed, already_used, expired, not_found, forbidden, error
	)

	// ReviewCodeClaims counts tap claims by outcome
	ReviewCodeClaims = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "review_code_claims_total",
			Help: "Review code claims by outcome",
		},
		[]string{"outcome"},
	)

	// CodeGenerationAttempts tracks how many inserts a unique code needed
	CodeGenerationAttempts = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "code_generation_attempts",
			Help:    "Insert attempts used to generate a unique code",
			Buckets: []float64{1, 2, 3, 4, 5},
		},
		[]string{"kind"}, // ticket or review_code
	)

	// ClaimDuration tracks the latency of claim requests
	ClaimDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "claim_duration_seconds",
			Help: "Duration of ticket and review code claims in seconds",
			Buckets: []float64{
				0.001, // 1ms
				0.005, // 5ms
				0.01,  // 10ms
				0.025, // 25ms
				0.05,  // 50ms
				0.1,   // 100ms
				0.25,  // 250ms
				0.5,   // 500ms
				1.0,   // 1s
			},
		},
		[]string{"kind", "status"},
	)
)

func RecordRedemption(outcome string) {
	TicketRedemptions.WithLabelValues(outcome).Inc()
}

func RecordReviewCodeClaim(outcome string) {
	ReviewCodeClaims.WithLabelValues(outcome).Inc()
}

func RecordCodeAttempts(kind string, attempts int) {
	CodeGenerationAttempts.WithLabelValues(kind).Observe(float64(attempts))
}

// RecordClaimDuration records the duration of a claim request
func RecordClaimDuration(kind, status string, duration float64) {
	ClaimDuration.WithLabelValues(kind, status).Observe(duration)
}
