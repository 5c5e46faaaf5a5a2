package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// status: accepted/rejected/failed
	submissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "methodquiz_submissions_total",
			Help: "Total number of submission attempts",
		},
		[]string{"type", "status"},
	)

	responsesRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "methodquiz_responses_total",
			Help: "Responses received in stored submissions",
		},
		[]string{"type", "correct"},
	)

	recentReads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "methodquiz_recent_reads_total",
			Help: "Recent-submission reads by source",
		},
		[]string{"source"}, // source: cache/store
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "methodquiz_http_request_duration_seconds",
			Help:    "Time spent serving API requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method", "status"},
	)

	reviewers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "methodquiz_ws_reviewers_current",
			Help: "Current number of connected review feed clients",
		},
	)
)

func SubmissionAccepted(quizType string) { submissions.WithLabelValues(quizType, "accepted").Inc() }
func SubmissionRejected(quizType string) { submissions.WithLabelValues(quizType, "rejected").Inc() }
func SubmissionFailed(quizType string)   { submissions.WithLabelValues(quizType, "failed").Inc() }

// ResponsesRecorded counts stored responses split by correctness.
func ResponsesRecorded(quizType string, correct, total int) {
	responsesRecorded.WithLabelValues(quizType, "true").Add(float64(correct))
	responsesRecorded.WithLabelValues(quizType, "false").Add(float64(total - correct))
}

func RecentRead(source string) { recentReads.WithLabelValues(source).Inc() }

func ObserveRequest(route, method, status string, d time.Duration) {
	requestDuration.WithLabelValues(route, method, status).Observe(d.Seconds())
}

func ReviewerConnected()    { reviewers.Inc() }
func ReviewerDisconnected() { reviewers.Dec() }

// Handler serves the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
