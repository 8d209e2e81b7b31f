package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyPath       = "path"
	KeyBook       = "book"
	KeyChapter    = "chapter"
	KeySection    = "section"
	KeyFile       = "file"
	KeyOutput     = "output"
	KeyRepo       = "repository"
	KeyURL        = "url"
	KeyName       = "name"
	KeyOutcome    = "outcome"
	KeyFiles      = "files"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Book(b string) slog.Attr         { return slog.String(KeyBook, b) }
func Chapter(c string) slog.Attr      { return slog.String(KeyChapter, c) }
func Section(s string) slog.Attr      { return slog.String(KeySection, s) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Output(o string) slog.Attr       { return slog.String(KeyOutput, o) }
func Repository(r string) slog.Attr   { return slog.String(KeyRepo, r) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Name(n string) slog.Attr         { return slog.String(KeyName, n) }
func Outcome(o string) slog.Attr      { return slog.String(KeyOutcome, o) }
func Files(n int) slog.Attr           { return slog.Int(KeyFiles, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
