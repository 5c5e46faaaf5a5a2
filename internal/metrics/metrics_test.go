package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestSubmissionCounters(t *testing.T) {
	before := testutil.ToFloat64(submissions.WithLabelValues("metrics-test", "accepted"))
	SubmissionAccepted("metrics-test")
	SubmissionAccepted("metrics-test")
	SubmissionRejected("metrics-test")

	if got := testutil.ToFloat64(submissions.WithLabelValues("metrics-test", "accepted")); got != before+2 {
		t.Errorf("accepted = %v, want %v", got, before+2)
	}

	ResponsesRecorded("metrics-test", 3, 5)
	if got := testutil.ToFloat64(responsesRecorded.WithLabelValues("metrics-test", "false")); got != 2 {
		t.Errorf("incorrect responses = %v, want 2", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	RecentRead("cache")
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "methodquiz_recent_reads_total") {
		t.Error("metrics output is missing methodquiz_recent_reads_total")
	}
}
