package book

// BookBuilder accumulates chapters for a Book. Each nested builder level
// holds its parent until Add attaches the draft node and hands the parent
// back, so a half-built chapter or section is never visible in the tree.
type BookBuilder struct {
	book Book
}

// NewBuilder starts a book with the given title and no chapters.
func NewBuilder(title string) *BookBuilder {
	return &BookBuilder{book: Book{Title: title}}
}

// Chapter opens a chapter context. Call Add on the returned builder to
// attach the chapter and regain the book builder.
func (b *BookBuilder) Chapter(title string) *ChapterBuilder {
	return &ChapterBuilder{parent: b, chapter: Chapter{Title: title}}
}

// Build finishes construction and yields the Book.
func (b *BookBuilder) Build() *Book {
	book := b.book
	return &book
}

// ChapterBuilder accumulates sections for one chapter.
type ChapterBuilder struct {
	parent  *BookBuilder
	chapter Chapter
}

// Section opens a section context under this chapter.
func (c *ChapterBuilder) Section(title string) *SectionBuilder {
	return &SectionBuilder{parent: c, section: Section{Title: title}}
}

// Add attaches the completed chapter and returns the book builder.
func (c *ChapterBuilder) Add() *BookBuilder {
	c.parent.book.Chapters = append(c.parent.book.Chapters, c.chapter)
	return c.parent
}

// SectionBuilder accumulates subsections for one section.
type SectionBuilder struct {
	parent  *ChapterBuilder
	section Section
}

// Subsection appends a leaf exercise. Subsections nest no further, so no
// dedicated builder level exists for them.
func (s *SectionBuilder) Subsection(title, contentPath, exerciseDir string) *SectionBuilder {
	s.section.Subsections = append(s.section.Subsections, Subsection{
		Title:       title,
		ContentPath: contentPath,
		ExerciseDir: exerciseDir,
	})
	return s
}

// Add attaches the completed section and returns the chapter builder.
func (s *SectionBuilder) Add() *ChapterBuilder {
	s.parent.chapter.Sections = append(s.parent.chapter.Sections, s.section)
	return s.parent
}
