// Package watch re-renders the course book whenever its configuration or
// content files change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/coursebook/internal/book"
	"git.home.luguber.info/inful/coursebook/internal/config"
	"git.home.luguber.info/inful/coursebook/internal/history"
	"git.home.luguber.info/inful/coursebook/internal/logfields"
	"git.home.luguber.info/inful/coursebook/internal/metrics"
)

// Options configure a watch session.
type Options struct {
	ConfigPath  string        // course configuration file
	Output      string        // output root override; empty uses the config value
	Debounce    time.Duration // quiet period before a rebuild; 0 uses 300ms
	Interval    time.Duration // forced full rebuild period; 0 disables
	MetricsAddr string        // Prometheus listen address; empty disables
	HistoryPath string        // SQLite render history file; empty disables
}

// Run watches the course sources and re-renders the full book after every
// change until ctx is canceled. Renders never overlap: changes arriving
// during a render coalesce into one follow-up render.
func Run(ctx context.Context, opts Options) error {
	if opts.Debounce <= 0 {
		opts.Debounce = 300 * time.Millisecond
	}

	session, err := newSession(opts)
	if err != nil {
		return err
	}
	defer session.close()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// The config directory is the one watch target that must work; content
	// directories are added best effort on every successful config load.
	if err := watcher.Add(filepath.Dir(opts.ConfigPath)); err != nil {
		return fmt.Errorf("watch config directory: %w", err)
	}

	session.rebuild(ctx, watcher)

	rebuildReq, trigger := setupDebouncer(opts.Debounce)
	startRebuildWorker(ctx, session, watcher, rebuildReq)

	scheduler, err := startIntervalRebuilds(opts.Interval, trigger)
	if err != nil {
		return err
	}
	if scheduler != nil {
		defer func() { _ = scheduler.Shutdown() }()
	}

	return runLoop(ctx, watcher, trigger)
}

// session holds the long-lived pieces of one watch run.
type session struct {
	opts       Options
	recorder   metrics.Recorder
	store      *history.Store
	metricsSrv *http.Server
}

func newSession(opts Options) (*session, error) {
	s := &session{opts: opts, recorder: metrics.NoopRecorder{}}

	if opts.HistoryPath != "" {
		store, err := history.Open(opts.HistoryPath)
		if err != nil {
			return nil, fmt.Errorf("open render history: %w", err)
		}
		s.store = store
	}

	if opts.MetricsAddr != "" {
		registry := prom.NewRegistry()
		s.recorder = metrics.NewPrometheusRecorder(registry)
		s.metricsSrv = metrics.NewServer(opts.MetricsAddr, registry)
		go func() {
			if err := s.metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", logfields.Error(err))
			}
		}()
		slog.Info("Serving Prometheus metrics", logfields.URL("http://"+opts.MetricsAddr+"/metrics"))
	}

	return s, nil
}

func (s *session) close() {
	if s.metricsSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.metricsSrv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("metrics server shutdown error", logfields.Error(err))
		}
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			slog.Warn("history store close error", logfields.Error(err))
		}
	}
}

// rebuild loads the configuration, refreshes content watch targets and
// renders the full book. Failures are logged and recorded, never fatal: the
// session keeps watching so the next change can fix the problem.
func (s *session) rebuild(ctx context.Context, watcher *fsnotify.Watcher) {
	cfg, err := config.Load(s.opts.ConfigPath)
	if err != nil {
		slog.Error("config load failed", logfields.Path(s.opts.ConfigPath), logfields.Error(err))
		return
	}
	if watcher != nil {
		for _, dir := range collectWatchDirs(cfg) {
			addDirsRecursive(watcher, dir)
		}
	}

	out := s.opts.Output
	if out == "" {
		out = cfg.Output.Directory
	}
	b := cfg.Assemble()
	rep, err := book.NewRenderer(out).SetRecorder(s.recorder).RenderWithReport(b)
	if err != nil {
		slog.Warn("render failed", logfields.Book(b.Title), logfields.Error(err))
	} else {
		slog.Info("Book rendered",
			logfields.Book(b.Title),
			logfields.Output(out),
			logfields.Files(rep.FilesWritten),
			logfields.DurationMS(float64(rep.Duration().Milliseconds())),
			logfields.Outcome(string(rep.Outcome)))
	}
	if s.store != nil {
		if herr := s.store.Record(ctx, history.FromReport(rep)); herr != nil {
			slog.Warn("record render history failed", logfields.Error(herr))
		}
	}
}

// collectWatchDirs returns the unique parent directories of all subsection
// content files.
func collectWatchDirs(cfg *config.Config) []string {
	seen := map[string]struct{}{}
	var dirs []string
	for _, chapter := range cfg.Course.Chapters {
		for _, section := range chapter.Sections {
			for _, sub := range section.Subsections {
				if sub.Content == "" {
					continue
				}
				dir := filepath.Dir(sub.Content)
				if _, ok := seen[dir]; ok {
					continue
				}
				seen[dir] = struct{}{}
				dirs = append(dirs, dir)
			}
		}
	}
	return dirs
}

// setupDebouncer creates the rebuild channel and a trigger function that
// collapses event bursts into one request after the quiet period.
func setupDebouncer(debounce time.Duration) (chan struct{}, func()) {
	var mu sync.Mutex
	var timer *time.Timer
	rebuildReq := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(debounce, func() {
			select {
			case rebuildReq <- struct{}{}:
			default:
			}
		})
	}

	return rebuildReq, trigger
}

// startRebuildWorker processes rebuild requests one at a time. A request
// arriving mid-render marks a pending follow-up render instead of starting a
// second one.
func startRebuildWorker(ctx context.Context, s *session, watcher *fsnotify.Watcher, rebuildReq chan struct{}) {
	var mu sync.Mutex
	running := false
	pending := false

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-rebuildReq:
				if !ok {
					return
				}
				mu.Lock()
				if running {
					pending = true
					mu.Unlock()
					continue
				}
				running = true
				mu.Unlock()

				slog.Info("Change detected; re-rendering book")
				s.rebuild(ctx, watcher)

				mu.Lock()
				running = false
				if pending {
					pending = false
					mu.Unlock()
					select {
					case rebuildReq <- struct{}{}:
					default:
					}
				} else {
					mu.Unlock()
				}
			}
		}
	}()
}

// startIntervalRebuilds schedules a forced full rebuild every interval.
func startIntervalRebuilds(interval time.Duration, trigger func()) (gocron.Scheduler, error) {
	if interval <= 0 {
		return nil, nil
	}
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	if _, err := scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(trigger),
		gocron.WithName("interval-rebuild"),
	); err != nil {
		_ = scheduler.Shutdown()
		return nil, fmt.Errorf("failed to create interval rebuild job: %w", err)
	}
	scheduler.Start()
	slog.Info("Interval rebuilds enabled", slog.Duration("interval", interval))
	return scheduler, nil
}

// runLoop dispatches filesystem events until ctx is canceled. The rebuild
// channel is never closed: a late debounce timer may still send into it, and
// the worker exits through ctx anyway.
func runLoop(ctx context.Context, watcher *fsnotify.Watcher, trigger func()) error {
	for {
		select {
		case <-ctx.Done():
			slog.Info("Stopping watch session")
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			handleFileEvent(watcher, ev, trigger)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", logfields.Error(err))
		}
	}
}

// handleFileEvent processes a filesystem event and triggers a rebuild if needed.
func handleFileEvent(watcher *fsnotify.Watcher, ev fsnotify.Event, trigger func()) {
	if shouldIgnoreEvent(ev.Name) {
		return
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			addDirsRecursive(watcher, ev.Name)
		}
	}
	slog.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	trigger()
}

func addDirsRecursive(w *fsnotify.Watcher, root string) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if err := w.Add(path); err != nil {
				slog.Debug("watch add failed", logfields.Path(path), logfields.Error(err))
			}
		}
		return nil
	})
}

// shouldIgnoreEvent returns true for filesystem events that should not
// trigger rebuilds.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	// Hidden files
	if strings.HasPrefix(base, ".") {
		return true
	}

	// Editor temp/swap files
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, ".#") ||
		(strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#")) {
		return true
	}

	// OS metadata files
	if base == ".DS_Store" || base == "Thumbs.db" {
		return true
	}

	return false
}
