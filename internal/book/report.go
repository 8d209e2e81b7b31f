package book

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/coursebook/internal/metrics"
)

// RenderOutcome is the typed enumeration of final render result states.
type RenderOutcome string

const (
	OutcomeSuccess RenderOutcome = "success"
	OutcomeFailed  RenderOutcome = "failed"
)

// RenderReport captures high-level metrics about a single render run.
type RenderReport struct {
	ID           string        `json:"id"`
	Book         string        `json:"book"`
	Chapters     int           `json:"chapters"`
	Sections     int           `json:"sections"`
	Subsections  int           `json:"subsections"`
	FilesWritten int           `json:"files_written"`
	Start        time.Time     `json:"start"`
	End          time.Time     `json:"end"`
	Outcome      RenderOutcome `json:"outcome"`
	Error        string        `json:"error,omitempty"`
}

func newRenderReport(b *Book) *RenderReport {
	rep := &RenderReport{
		ID:       uuid.NewString(),
		Book:     b.Title,
		Chapters: len(b.Chapters),
		Start:    time.Now(),
	}
	for _, c := range b.Chapters {
		rep.Sections += len(c.Sections)
		for _, s := range c.Sections {
			rep.Subsections += len(s.Subsections)
		}
	}
	return rep
}

func (rep *RenderReport) finish(err error) {
	rep.End = time.Now()
	if err != nil {
		rep.Outcome = OutcomeFailed
		rep.Error = err.Error()
		return
	}
	rep.Outcome = OutcomeSuccess
}

// Duration returns the wall-clock render time.
func (rep *RenderReport) Duration() time.Duration { return rep.End.Sub(rep.Start) }

// Summary returns a human-readable single-line summary.
func (rep *RenderReport) Summary() string {
	return fmt.Sprintf("book=%q chapters=%d sections=%d subsections=%d files=%d duration=%s outcome=%s",
		rep.Book, rep.Chapters, rep.Sections, rep.Subsections, rep.FilesWritten,
		rep.Duration().Truncate(time.Millisecond), rep.Outcome)
}

// Persist writes the report atomically into the provided directory:
//
//	render-report.json  (machine readable)
//	render-report.txt   (human summary)
//
// Best effort; errors are returned for caller logging but do not change the
// render outcome.
func (rep *RenderReport) Persist(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("ensure report directory: %w", err)
	}
	jb, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report json: %w", err)
	}
	jsonPath := filepath.Join(dir, "render-report.json")
	tmpJSON := jsonPath + ".tmp"
	if err := os.WriteFile(tmpJSON, jb, 0644); err != nil {
		return fmt.Errorf("write temp report json: %w", err)
	}
	if err := os.Rename(tmpJSON, jsonPath); err != nil {
		return fmt.Errorf("atomic rename json: %w", err)
	}
	summaryPath := filepath.Join(dir, "render-report.txt")
	tmpTxt := summaryPath + ".tmp"
	if err := os.WriteFile(tmpTxt, []byte(rep.Summary()+"\n"), 0644); err != nil {
		return fmt.Errorf("write temp report summary: %w", err)
	}
	if err := os.Rename(tmpTxt, summaryPath); err != nil {
		return fmt.Errorf("atomic rename summary: %w", err)
	}
	return nil
}

// RenderWithReport renders b and returns a report alongside the render error.
// The recorder receives duration, outcome and file counts. A report is
// returned for failed renders too, with Outcome set to OutcomeFailed.
func (r *Renderer) RenderWithReport(b *Book) (*RenderReport, error) {
	rep := newRenderReport(b)
	r.onFileWritten = func() { rep.FilesWritten++ }
	err := r.Render(b)
	r.onFileWritten = nil
	rep.finish(err)
	r.recorder.ObserveRenderDuration(rep.Duration())
	r.recorder.IncRenderOutcome(metrics.OutcomeLabel(rep.Outcome))
	r.recorder.AddFilesWritten(rep.FilesWritten)
	r.recorder.SetLastRenderFiles(rep.FilesWritten)
	return rep, err
}
