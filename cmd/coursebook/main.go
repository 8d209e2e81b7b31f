package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/coursebook/internal/book"
	"git.home.luguber.info/inful/coursebook/internal/config"
	"git.home.luguber.info/inful/coursebook/internal/git"
	"git.home.luguber.info/inful/coursebook/internal/history"
	"git.home.luguber.info/inful/coursebook/internal/logfields"
	"git.home.luguber.info/inful/coursebook/internal/metrics"
	"git.home.luguber.info/inful/coursebook/internal/version"
	"git.home.luguber.info/inful/coursebook/internal/watch"
	"git.home.luguber.info/inful/coursebook/internal/workspace"
)

var CLI struct {
	Config  string `short:"c" help:"Course configuration file path" default:"coursebook.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Build struct {
		Output string `short:"o" help:"Output directory for the rendered book (overrides config)"`
		Repo   string `short:"r" help:"Git repository URL holding the course instead of a local directory"`
		Branch string `help:"Branch to check out when --repo is used"`
		Report bool   `help:"Write render-report.json and render-report.txt into the output directory"`
	} `cmd:"" help:"Render the course book once"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new course configuration file"`

	Watch struct {
		Output      string        `short:"o" help:"Output directory for the rendered book (overrides config)"`
		Debounce    time.Duration `help:"Quiet period before re-rendering after a change" default:"300ms"`
		Interval    time.Duration `help:"Force a full re-render at this interval (0 disables)"`
		MetricsAddr string        `help:"Serve Prometheus metrics on this address (empty disables)"`
		History     string        `help:"SQLite file recording every render (empty disables)"`
	} `cmd:"" help:"Re-render the book whenever course sources change"`

	History struct {
		Path  string `arg:"" help:"SQLite render history file"`
		Limit int    `help:"Number of entries to show" default:"20"`
	} `cmd:"" help:"Show recent renders from a history file"`

	Version struct{} `cmd:"" help:"Print version information"`
}

func main() {
	ctx := kong.Parse(&CLI)

	// Set up logging
	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	switch ctx.Command() {
	case "build":
		if err := runBuild(); err != nil {
			slog.Error("Build failed", logfields.Error(err))
			os.Exit(1)
		}
	case "init":
		if err := runInit(CLI.Config, CLI.Init.Force); err != nil {
			slog.Error("Init failed", logfields.Error(err))
			os.Exit(1)
		}
	case "watch":
		if err := runWatch(); err != nil {
			slog.Error("Watch failed", logfields.Error(err))
			os.Exit(1)
		}
	case "history <path>":
		if err := runHistory(CLI.History.Path, CLI.History.Limit); err != nil {
			slog.Error("History failed", logfields.Error(err))
			os.Exit(1)
		}
	case "version":
		fmt.Println(version.String())
	}
}

func runBuild() error {
	configPath := CLI.Config

	// A remote course is cloned into a throwaway workspace first; the config
	// path is then taken relative to the checkout root.
	if CLI.Build.Repo != "" {
		wsManager := workspace.NewManager("")
		if err := wsManager.Create(); err != nil {
			return err
		}
		defer func() {
			if err := wsManager.Cleanup(); err != nil {
				slog.Warn("Failed to cleanup workspace", logfields.Error(err))
			}
		}()

		gitClient := git.NewClient(wsManager.GetPath()).WithDepth(1)
		checkout, err := gitClient.Clone(CLI.Build.Repo, CLI.Build.Branch)
		if err != nil {
			return err
		}
		configPath = filepath.Join(checkout, CLI.Config)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	out := CLI.Build.Output
	if out == "" {
		out = cfg.Output.Directory
	}

	b := cfg.Assemble()
	slog.Info("Rendering course book", logfields.Book(b.Title), logfields.Output(out))

	rep, rerr := book.NewRenderer(out).SetRecorder(metrics.NoopRecorder{}).RenderWithReport(b)
	if CLI.Build.Report {
		if perr := rep.Persist(out); perr != nil {
			slog.Warn("Failed to persist render report", logfields.Error(perr))
		}
	}
	if rerr != nil {
		return rerr
	}

	slog.Info("Book rendered",
		logfields.Files(rep.FilesWritten),
		logfields.DurationMS(float64(rep.Duration().Milliseconds())),
		logfields.Outcome(string(rep.Outcome)))
	return nil
}

func runInit(configPath string, force bool) error {
	slog.Info("Initializing configuration", logfields.Path(configPath), slog.Bool("force", force))
	return config.Init(configPath, force)
}

func runWatch() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	slog.Info("Watching course sources", logfields.Path(CLI.Config))
	return watch.Run(ctx, watch.Options{
		ConfigPath:  CLI.Config,
		Output:      CLI.Watch.Output,
		Debounce:    CLI.Watch.Debounce,
		Interval:    CLI.Watch.Interval,
		MetricsAddr: CLI.Watch.MetricsAddr,
		HistoryPath: CLI.Watch.History,
	})
}

func runHistory(path string, limit int) error {
	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	entries, err := store.Recent(context.Background(), limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("no renders recorded")
		return nil
	}
	for _, e := range entries {
		line := fmt.Sprintf("%s  %-7s  book=%q files=%d duration=%dms",
			e.RecordedAt.Format(time.RFC3339), e.Outcome, e.Book, e.FilesWritten, e.DurationMS)
		if e.Error != "" {
			line += "  error=" + e.Error
		}
		fmt.Println(line)
	}
	return nil
}
