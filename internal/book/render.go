package book

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/coursebook/internal/metrics"
	"git.home.luguber.info/inful/coursebook/internal/slug"
)

// bookTOML is the fixed mdBook configuration emitted with every render.
const bookTOML = `[book]
language = "en"
multilingual = false

[build]
build-dir = "./target"
`

// Renderer writes a Book as an mdBook source tree below an output root:
//
//	<root>/book/book.toml
//	<root>/book/src/SUMMARY.md
//	<root>/book/src/<section-slug>.md
//
// Render walks the tree in order and stops at the first I/O failure;
// already-written files are left in place.
type Renderer struct {
	outDir   string
	recorder metrics.Recorder

	onFileWritten func()
}

// NewRenderer returns a Renderer rooted at outDir with metrics disabled.
func NewRenderer(outDir string) *Renderer {
	return &Renderer{outDir: filepath.Clean(outDir), recorder: metrics.NoopRecorder{}}
}

// SetRecorder wires a metrics recorder; nil resets to the noop recorder.
func (r *Renderer) SetRecorder(rec metrics.Recorder) *Renderer {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	r.recorder = rec
	return r
}

// Render writes the full output tree for b. Every failure wraps ErrRender.
func (r *Renderer) Render(b *Book) error {
	bookDir := filepath.Join(r.outDir, "book")
	srcDir := filepath.Join(bookDir, "src")
	if err := os.MkdirAll(srcDir, 0o755); err != nil {
		return fmt.Errorf("%w: create source directory: %w", ErrRender, err)
	}
	if err := os.WriteFile(filepath.Join(bookDir, "book.toml"), []byte(bookTOML), 0o644); err != nil {
		return fmt.Errorf("%w: write book.toml: %w", ErrRender, err)
	}
	r.fileWritten()

	summary, err := os.Create(filepath.Join(srcDir, "SUMMARY.md"))
	if err != nil {
		return fmt.Errorf("%w: create SUMMARY.md: %w", ErrRender, err)
	}
	defer func() { _ = summary.Close() }()
	if _, err := summary.WriteString("# Summary\n\n"); err != nil {
		return fmt.Errorf("%w: write SUMMARY.md: %w", ErrRender, err)
	}
	r.fileWritten()

	for ci, chapter := range b.Chapters {
		// mdBook has no custom numbering, so an unlinked chapter entry keeps
		// the generated numbers aligned with the chapter position.
		if _, err := fmt.Fprintf(summary, "- [%s]()\n", chapter.Title); err != nil {
			return fmt.Errorf("%w: write SUMMARY.md: %w", ErrRender, err)
		}
		for si, section := range chapter.Sections {
			fileName := slug.Make(section.Title) + ".md"
			if _, err := fmt.Fprintf(summary, "\t- [%s](%s)\n", section.Title, fileName); err != nil {
				return fmt.Errorf("%w: write SUMMARY.md: %w", ErrRender, err)
			}
			if err := r.renderSection(filepath.Join(srcDir, fileName), ci+1, si+1, section); err != nil {
				return err
			}
		}
		if _, err := summary.WriteString("\n"); err != nil {
			return fmt.Errorf("%w: write SUMMARY.md: %w", ErrRender, err)
		}
	}
	return nil
}

// renderSection writes one section file: the unit heading, then every
// subsection's exercise heading and substituted content.
func (r *Renderer) renderSection(path string, chapterNo, sectionNo int, section Section) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: create %s: %w", ErrRender, filepath.Base(path), err)
	}
	defer func() { _ = f.Close() }()

	if _, err := fmt.Fprintf(f, "# Unit %d.%d - %s\n\n", chapterNo, sectionNo, section.Title); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrRender, filepath.Base(path), err)
	}
	for ui, sub := range section.Subsections {
		ref := fmt.Sprintf("%d.%d.%d", chapterNo, sectionNo, ui+1)
		if _, err := fmt.Fprintf(f, "## Exercise %s: %s\n\n", ref, sub.Title); err != nil {
			return fmt.Errorf("%w: write %s: %w", ErrRender, filepath.Base(path), err)
		}
		raw, err := os.ReadFile(sub.ContentPath)
		if err != nil {
			return fmt.Errorf("%w: read %s: %w", ErrRender, sub.ContentPath, err)
		}
		content := substitute(string(raw), sub.ExerciseDir, ref)
		if _, err := fmt.Fprintf(f, "%s\n", strings.TrimSpace(content)); err != nil {
			return fmt.Errorf("%w: write %s: %w", ErrRender, filepath.Base(path), err)
		}
	}
	r.fileWritten()
	return nil
}

func (r *Renderer) fileWritten() {
	if r.onFileWritten != nil {
		r.onFileWritten()
	}
}
