package workspace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestManagerLifecycle(t *testing.T) {
	tempBase := t.TempDir()
	mgr := NewManager(tempBase)

	if err := mgr.Create(); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	wsPath := mgr.GetPath()
	if wsPath == "" {
		t.Fatal("GetPath() returned empty string")
	}

	if !strings.Contains(filepath.Base(wsPath), "coursebook-") {
		t.Errorf("Expected timestamped directory, got: %s", wsPath)
	}

	if _, err := os.Stat(wsPath); os.IsNotExist(err) {
		t.Errorf("Workspace directory does not exist: %s", wsPath)
	}

	// Cleanup should remove directory
	if err := mgr.Cleanup(); err != nil {
		t.Fatalf("Cleanup() failed: %v", err)
	}

	if _, err := os.Stat(wsPath); !os.IsNotExist(err) {
		t.Errorf("Workspace directory still exists after cleanup: %s", wsPath)
	}
}

func TestManagerCleanupBeforeCreate(t *testing.T) {
	mgr := NewManager(t.TempDir())
	if err := mgr.Cleanup(); err != nil {
		t.Fatalf("Cleanup() before Create() should be a no-op, got: %v", err)
	}
}

func TestManagerDefaultBaseDir(t *testing.T) {
	mgr := NewManager("")
	if err := mgr.Create(); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	defer func() { _ = mgr.Cleanup() }()

	if !strings.HasPrefix(mgr.GetPath(), os.TempDir()) {
		t.Errorf("Expected workspace under system temp dir, got: %s", mgr.GetPath())
	}
}
