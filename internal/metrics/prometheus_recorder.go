package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once            sync.Once
	renderDuration  prom.Histogram
	renderOutcome   *prom.CounterVec
	filesWritten    prom.Counter
	lastRenderFiles prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.renderDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "coursebook",
			Name:      "render_duration_seconds",
			Help:      "Total duration of a full book render",
			Buckets:   prom.DefBuckets,
		})
		pr.renderOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "coursebook",
			Name:      "render_outcomes_total",
			Help:      "Render outcomes by final status",
		}, []string{"outcome"})
		pr.filesWritten = prom.NewCounter(prom.CounterOpts{
			Namespace: "coursebook",
			Name:      "files_written_total",
			Help:      "Total files written across all renders",
		})
		pr.lastRenderFiles = prom.NewGauge(prom.GaugeOpts{
			Namespace: "coursebook",
			Name:      "last_render_files",
			Help:      "Files written by the most recent render",
		})
		reg.MustRegister(pr.renderDuration, pr.renderOutcome, pr.filesWritten, pr.lastRenderFiles)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveRenderDuration(d time.Duration) {
	if p == nil || p.renderDuration == nil {
		return
	}
	p.renderDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRenderOutcome(outcome OutcomeLabel) {
	if p == nil || p.renderOutcome == nil {
		return
	}
	p.renderOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) AddFilesWritten(n int) {
	if p == nil || p.filesWritten == nil {
		return
	}
	p.filesWritten.Add(float64(n))
}

func (p *PrometheusRecorder) SetLastRenderFiles(n int) {
	if p == nil || p.lastRenderFiles == nil {
		return
	}
	p.lastRenderFiles.Set(float64(n))
}
