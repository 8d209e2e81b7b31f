package git

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func TestRepoDirName(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://git.example.com/inful/rust-course.git", "rust-course"},
		{"https://git.example.com/inful/rust-course", "rust-course"},
		{"https://git.example.com/inful/rust-course/", "rust-course"},
		{"git@git.example.com:inful/course.git", "course"},
		{"/srv/git/course.git", "course"},
		{"plain-name", "plain-name"},
		{"", "course"},
	}
	for _, tc := range cases {
		if got := RepoDirName(tc.url); got != tc.want {
			t.Fatalf("RepoDirName(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}

// initSourceRepo creates a local git repository with a single commit so clone
// tests run without network access.
func initSourceRepo(t *testing.T) string {
	t.Helper()
	src := filepath.Join(t.TempDir(), "course-src")
	repo, err := git.PlainInit(src, false)
	if err != nil {
		t.Fatalf("init source repo: %v", err)
	}
	if err := os.WriteFile(filepath.Join(src, "coursebook.yaml"), []byte("course:\n  title: T\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	if _, err := wt.Add("coursebook.yaml"); err != nil {
		t.Fatalf("add: %v", err)
	}
	sig := &object.Signature{Name: "Tester", Email: "tester@example.com", When: time.Now()}
	if _, err := wt.Commit("initial", &git.CommitOptions{Author: sig}); err != nil {
		t.Fatalf("commit: %v", err)
	}
	return src
}

func TestCloneLocalRepository(t *testing.T) {
	src := initSourceRepo(t)
	workspace := t.TempDir()

	path, err := NewClient(workspace).Clone(src, "")
	if err != nil {
		t.Fatalf("clone: %v", err)
	}
	if filepath.Dir(path) != workspace {
		t.Fatalf("checkout outside workspace: %s", path)
	}
	if _, err := os.Stat(filepath.Join(path, "coursebook.yaml")); err != nil {
		t.Fatalf("cloned file missing: %v", err)
	}
}

func TestCloneReplacesExistingCheckout(t *testing.T) {
	src := initSourceRepo(t)
	workspace := t.TempDir()
	stale := filepath.Join(workspace, RepoDirName(src))
	if err := os.MkdirAll(stale, 0o750); err != nil {
		t.Fatalf("mkdir stale: %v", err)
	}
	if err := os.WriteFile(filepath.Join(stale, "leftover.txt"), []byte("old"), 0o644); err != nil {
		t.Fatalf("write stale file: %v", err)
	}

	path, err := NewClient(workspace).Clone(src, "")
	if err != nil {
		t.Fatalf("clone: %v", err)
	}
	if _, err := os.Stat(filepath.Join(path, "leftover.txt")); !os.IsNotExist(err) {
		t.Fatalf("stale checkout content survived clone")
	}
}

func TestCloneMissingRepository(t *testing.T) {
	_, err := NewClient(t.TempDir()).Clone(filepath.Join(t.TempDir(), "does-not-exist"), "")
	if !errors.Is(err, ErrClone) {
		t.Fatalf("expected ErrClone, got %v", err)
	}
}

func TestCloneUnknownBranch(t *testing.T) {
	src := initSourceRepo(t)
	_, err := NewClient(t.TempDir()).Clone(src, "no-such-branch")
	if !errors.Is(err, ErrClone) {
		t.Fatalf("expected ErrClone for unknown branch, got %v", err)
	}
}
