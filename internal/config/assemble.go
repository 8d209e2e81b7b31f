package config

import "git.home.luguber.info/inful/coursebook/internal/book"

// Assemble builds the immutable book tree from the course definition,
// preserving chapter, section and subsection order.
func (c *Config) Assemble() *book.Book {
	bb := book.NewBuilder(c.Course.Title)
	for _, chapter := range c.Course.Chapters {
		cb := bb.Chapter(chapter.Title)
		for _, section := range chapter.Sections {
			sb := cb.Section(section.Title)
			for _, sub := range section.Subsections {
				sb.Subsection(sub.Title, sub.Content, sub.ExerciseDir)
			}
			cb = sb.Add()
		}
		bb = cb.Add()
	}
	return bb.Build()
}
