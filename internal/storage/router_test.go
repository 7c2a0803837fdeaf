package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestRouter(t *testing.T) *Router {
	t.Helper()

	base := t.TempDir()
	return NewRouter(
		filepath.Join(base, "cvs"),
		filepath.Join(base, "accepted"),
		filepath.Join(base, "rejected"),
		nil,
	)
}

func TestPrepareCreatesDirectories(t *testing.T) {
	router := newTestRouter(t)

	archive, err := router.Prepare()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if archive != "" {
		t.Fatalf("expected no archive on first run, got %q", archive)
	}

	for _, dir := range []string{router.SourceDir, router.AcceptedDir, router.RejectedDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be a directory", dir)
		}
	}
}

func TestPrepareCleansIngestFolder(t *testing.T) {
	router := newTestRouter(t)
	router.CleanBeforeRun = true

	if err := os.MkdirAll(router.SourceDir, 0o755); err != nil {
		t.Fatalf("creating ingest folder: %v", err)
	}
	stale := filepath.Join(router.SourceDir, "old.pdf")
	if err := os.WriteFile(stale, []byte("stale"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	if _, err := router.Prepare(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatalf("expected stale file removed, got %v", err)
	}
}

func TestPrepareArchivesAcceptedFolder(t *testing.T) {
	router := newTestRouter(t)
	router.ArchiveAccepted = true

	if err := os.MkdirAll(router.AcceptedDir, 0o755); err != nil {
		t.Fatalf("creating accepted folder: %v", err)
	}
	kept := filepath.Join(router.AcceptedDir, "keeper.pdf")
	if err := os.WriteFile(kept, []byte("keep"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	archive, err := router.Prepare()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if archive == "" {
		t.Fatalf("expected archive path")
	}
	if !strings.HasPrefix(archive, router.AcceptedDir+"_") {
		t.Fatalf("expected archive next to accepted folder, got %q", archive)
	}

	if _, err := os.Stat(filepath.Join(archive, "keeper.pdf")); err != nil {
		t.Fatalf("expected archived file to survive: %v", err)
	}

	entries, err := os.ReadDir(router.AcceptedDir)
	if err != nil {
		t.Fatalf("expected fresh accepted folder: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty accepted folder, got %d entries", len(entries))
	}
}

func TestPrepareRemovesAcceptedWithoutArchiving(t *testing.T) {
	router := newTestRouter(t)

	if err := os.MkdirAll(router.AcceptedDir, 0o755); err != nil {
		t.Fatalf("creating accepted folder: %v", err)
	}
	old := filepath.Join(router.AcceptedDir, "old.pdf")
	if err := os.WriteFile(old, []byte("old"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	archive, err := router.Prepare()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if archive != "" {
		t.Fatalf("expected no archive, got %q", archive)
	}

	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Fatalf("expected old accepted file removed, got %v", err)
	}
}

func TestStoreRoutesByDecision(t *testing.T) {
	router := newTestRouter(t)
	if _, err := router.Prepare(); err != nil {
		t.Fatalf("preparing: %v", err)
	}

	for _, name := range []string{"good.pdf", "bad.pdf"} {
		if err := os.WriteFile(filepath.Join(router.SourceDir, name), []byte(name), 0o644); err != nil {
			t.Fatalf("writing fixture %q: %v", name, err)
		}
	}

	if err := router.Store("good.pdf", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := router.Store("bad.pdf", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(router.AcceptedDir, "good.pdf"))
	if err != nil {
		t.Fatalf("expected accepted copy: %v", err)
	}
	if string(data) != "good.pdf" {
		t.Fatalf("unexpected accepted content: %q", data)
	}

	if _, err := os.Stat(filepath.Join(router.RejectedDir, "bad.pdf")); err != nil {
		t.Fatalf("expected rejected copy: %v", err)
	}

	// Routing copies, the source stays in place.
	if _, err := os.Stat(filepath.Join(router.SourceDir, "good.pdf")); err != nil {
		t.Fatalf("expected source file untouched: %v", err)
	}
}

func TestStoreMissingSource(t *testing.T) {
	router := newTestRouter(t)
	if _, err := router.Prepare(); err != nil {
		t.Fatalf("preparing: %v", err)
	}

	if err := router.Store("ghost.pdf", true); err == nil {
		t.Fatalf("expected error for missing source file")
	}
}
