// Package book defines the course book model and its renderer.
//
// A Book is a three-level tree: chapters contain sections, sections contain
// subsections. Trees are assembled through the builder chain in builder.go
// and treated as immutable afterwards; chapter, section and subsection
// numbers are never stored, they are derived from sequence position at
// render time.
package book

// Subsection is a leaf exercise: a title, the markdown source file holding
// its content and the directory the exercise ships in.
type Subsection struct {
	Title       string
	ContentPath string
	ExerciseDir string
}

// Section groups subsections and renders as one markdown file named after
// the slug of its title.
type Section struct {
	Title       string
	Subsections []Subsection
}

// Chapter groups sections. Its position in the book supplies the first part
// of every contained unit number.
type Chapter struct {
	Title    string
	Sections []Section
}

// Book is the root of the tree. Construct one via NewBuilder.
type Book struct {
	Title    string
	Chapters []Chapter
}

// Render writes the book below outDir using a default Renderer.
func (b *Book) Render(outDir string) error {
	return NewRenderer(outDir).Render(b)
}
