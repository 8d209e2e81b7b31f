package book

import (
	"regexp"
	"strings"
)

// Tokens recognized in subsection source content.
const (
	exerciseDirToken = "#[modmod:exercise_dir]"
	exerciseRefToken = "#[modmod:exercise_ref]"
)

var topLevelHeading = regexp.MustCompile(`(?m)^# `)

// substitute rewrites subsection source content for inclusion under its
// second-level exercise heading. The order is fixed: exercise-dir token
// first, then the exercise reference, then heading demotion.
func substitute(content, exerciseDir, ref string) string {
	content = strings.ReplaceAll(content, exerciseDirToken, exerciseDir)
	content = strings.ReplaceAll(content, exerciseRefToken, ref)
	return demoteHeadings(content)
}

// demoteHeadings rewrites every top-level heading line as a third-level
// heading so source headings nest under the exercise heading.
func demoteHeadings(content string) string {
	return topLevelHeading.ReplaceAllString(content, "### ")
}
