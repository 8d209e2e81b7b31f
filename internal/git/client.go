package git

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"git.home.luguber.info/inful/coursebook/internal/logfields"
)

// ErrClone marks repository clone failures. Callers match it with errors.Is;
// the wrapped cause carries the go-git detail.
var ErrClone = errors.New("coursebook: clone error")

// Client handles Git operations for course repositories.
type Client struct {
	workspaceDir string
	depth        int
}

// NewClient creates a new Git client cloning below the specified workspace directory.
func NewClient(workspaceDir string) *Client { return &Client{workspaceDir: workspaceDir} }

// WithDepth enables shallow clones of the given depth (fluent helper).
func (c *Client) WithDepth(depth int) *Client { c.depth = depth; return c }

// Clone clones url into the workspace and returns the checkout path. An
// empty branch follows the remote default branch. Any existing checkout at
// the target path is removed first.
func (c *Client) Clone(url, branch string) (string, error) {
	repoPath := filepath.Join(c.workspaceDir, RepoDirName(url))
	slog.Debug("Cloning course repository", logfields.URL(url), slog.String("branch", branch), logfields.Path(repoPath))
	if err := os.RemoveAll(repoPath); err != nil {
		return "", fmt.Errorf("%w: remove existing checkout: %w", ErrClone, err)
	}

	cloneOptions := &git.CloneOptions{URL: url}
	if branch != "" {
		cloneOptions.ReferenceName = plumbing.ReferenceName("refs/heads/" + branch)
		cloneOptions.SingleBranch = true
	}
	if c.depth > 0 {
		cloneOptions.Depth = c.depth
	}
	repository, err := git.PlainClone(repoPath, false, cloneOptions)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrClone, url, err)
	}
	if ref, herr := repository.Head(); herr == nil {
		slog.Info("Repository cloned", logfields.URL(url), slog.String("commit", ref.Hash().String()[:8]), logfields.Path(repoPath))
	} else {
		slog.Info("Repository cloned", logfields.URL(url), logfields.Path(repoPath))
	}
	return repoPath, nil
}

// RepoDirName derives a checkout directory name from a clone URL: the final
// path element with any .git suffix stripped.
func RepoDirName(url string) string {
	name := strings.TrimSuffix(url, "/")
	if i := strings.LastIndexAny(name, "/:"); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSuffix(name, ".git")
	if name == "" {
		return "course"
	}
	return name
}
