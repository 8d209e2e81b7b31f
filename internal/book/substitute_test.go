package book

import "testing"

func TestSubstituteExerciseDir(t *testing.T) {
	got := substitute("Path: #[modmod:exercise_dir]", "/tmp/ex1", "1.1.1")
	if got != "Path: /tmp/ex1" {
		t.Fatalf("unexpected substitution: %q", got)
	}
}

func TestSubstituteExerciseRef(t *testing.T) {
	got := substitute("See exercise #[modmod:exercise_ref] for details.", "", "2.3.4")
	if got != "See exercise 2.3.4 for details." {
		t.Fatalf("unexpected substitution: %q", got)
	}
}

// TestSubstituteOrder verifies that a reference substituted into heading
// position is demoted like any literal heading.
func TestSubstituteOrder(t *testing.T) {
	got := substitute("# #[modmod:exercise_ref]\n", "", "1.1.1")
	if got != "### 1.1.1\n" {
		t.Fatalf("expected demoted reference heading, got %q", got)
	}
}

func TestDemoteHeadings(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"first line", "# Title\nbody", "### Title\nbody"},
		{"mid content", "intro\n# Title\nbody", "intro\n### Title\nbody"},
		{"multiple", "# One\ntext\n# Two\n", "### One\ntext\n### Two\n"},
		{"second level untouched", "## Keep\n", "## Keep\n"},
		{"no space", "#Keep\n", "#Keep\n"},
		{"mid line untouched", "not # a heading\n", "not # a heading\n"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := demoteHeadings(tc.in); got != tc.want {
				t.Fatalf("demoteHeadings(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestSubstituteRepeatedTokens(t *testing.T) {
	in := "#[modmod:exercise_dir]/#[modmod:exercise_dir] at #[modmod:exercise_ref] and #[modmod:exercise_ref]"
	got := substitute(in, "ex", "1.2.3")
	if got != "ex/ex at 1.2.3 and 1.2.3" {
		t.Fatalf("every occurrence must be replaced, got %q", got)
	}
}
