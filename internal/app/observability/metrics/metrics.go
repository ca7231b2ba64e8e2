package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the review domain metric instruments.
type AppMetrics struct {
	ReviewsSubmittedTotal  metric.Int64Counter
	VotesAppliedTotal      metric.Int64Counter
	VotesDuplicateTotal    metric.Int64Counter
	ModerationActionsTotal metric.Int64Counter
	ReportsTotal           metric.Int64Counter
	DBQueryDurationSeconds metric.Float64Histogram
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metric instruments ONLY ONCE, reading
// the Meter from the globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("reviews-service")
		var err error
		m := &AppMetrics{}

		m.ReviewsSubmittedTotal, err = meter.Int64Counter(
			"reviews_submitted_total",
			metric.WithDescription("Total number of reviews accepted for moderation"),
			metric.WithUnit("{review}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create reviews_submitted_total: %v", err)
		}

		m.VotesAppliedTotal, err = meter.Int64Counter(
			"votes_applied_total",
			metric.WithDescription("Total number of helpfulness votes that incremented a counter"),
			metric.WithUnit("{vote}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create votes_applied_total: %v", err)
		}

		m.VotesDuplicateTotal, err = meter.Int64Counter(
			"votes_duplicate_total",
			metric.WithDescription("Total number of votes dropped because the voter had already voted"),
			metric.WithUnit("{vote}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create votes_duplicate_total: %v", err)
		}

		m.ModerationActionsTotal, err = meter.Int64Counter(
			"moderation_actions_total",
			metric.WithDescription("Total number of approve/reject/delete decisions"),
			metric.WithUnit("{action}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create moderation_actions_total: %v", err)
		}

		m.ReportsTotal, err = meter.Int64Counter(
			"reports_total",
			metric.WithDescription("Total number of review report requests"),
			metric.WithUnit("{report}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create reports_total: %v", err)
		}

		m.DBQueryDurationSeconds, err = meter.Float64Histogram(
			"db_query_duration_seconds",
			metric.WithDescription("Duration of review store queries in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_duration_seconds: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the global metrics instance, initializing it if needed so tests
// and early callers never hit a nil instrument.
func Get() *AppMetrics {
	if appMetrics == nil {
		InitAppMetrics()
	}
	return appMetrics
}
