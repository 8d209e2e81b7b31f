package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveRenderDuration(150 * time.Millisecond)
	pr.IncRenderOutcome(OutcomeSuccess)
	pr.IncRenderOutcome(OutcomeSuccess)
	pr.IncRenderOutcome(OutcomeFailed)
	pr.AddFilesWritten(4)
	pr.SetLastRenderFiles(4)

	if got := testutil.ToFloat64(pr.renderOutcome.WithLabelValues("success")); got != 2 {
		t.Fatalf("expected 2 success outcomes, got %v", got)
	}
	if got := testutil.ToFloat64(pr.filesWritten); got != 4 {
		t.Fatalf("expected 4 files written, got %v", got)
	}
	if got := testutil.ToFloat64(pr.lastRenderFiles); got != 4 {
		t.Fatalf("expected last render gauge 4, got %v", got)
	}

	// Basic scrape to ensure metrics encode without panic
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(mfs) == 0 {
		t.Fatalf("expected metrics, got none")
	}
}

// TestPrometheusRecorderNilSafety mirrors the optional-injection contract: a
// nil recorder must not panic.
func TestPrometheusRecorderNilSafety(t *testing.T) {
	var pr *PrometheusRecorder
	pr.ObserveRenderDuration(time.Second)
	pr.IncRenderOutcome(OutcomeFailed)
	pr.AddFilesWritten(1)
	pr.SetLastRenderFiles(1)
}

func TestNewServerServesRenderMetrics(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncRenderOutcome(OutcomeSuccess)

	srv := NewServer("127.0.0.1:0", reg)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "coursebook_render_outcomes_total") {
		t.Fatalf("render outcome counter missing from scrape:\n%s", body)
	}
	if !strings.Contains(body, "go_goroutines") {
		t.Fatalf("expected Go collector metrics in scrape")
	}
}
