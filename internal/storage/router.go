// Package storage owns the on-disk lifecycle around a screening run: the
// ingest folder documents arrive in and the accepted/rejected partitions
// source files are routed to after scoring.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Router copies source documents into the accepted or rejected partition.
// Routing is a side effect of scoring, not scored content itself.
type Router struct {
	SourceDir   string
	AcceptedDir string
	RejectedDir string

	// CleanBeforeRun wipes and recreates the ingest folder during Prepare.
	CleanBeforeRun bool
	// ArchiveAccepted backs up the previous accepted partition before it is
	// recreated.
	ArchiveAccepted bool

	logger *zap.Logger
}

func NewRouter(sourceDir, acceptedDir, rejectedDir string, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{
		SourceDir:   sourceDir,
		AcceptedDir: acceptedDir,
		RejectedDir: rejectedDir,
		logger:      logger,
	}
}

// Prepare creates the run's directories, optionally cleaning the ingest
// folder and archiving the previous accepted partition. It returns the
// archive path when one was created.
func (r *Router) Prepare() (string, error) {
	if r.CleanBeforeRun {
		if err := os.RemoveAll(r.SourceDir); err != nil {
			return "", fmt.Errorf("cleaning ingest folder: %w", err)
		}
		r.logger.Info("cleaned ingest folder", zap.String("path", r.SourceDir))
	}
	if err := os.MkdirAll(r.SourceDir, 0o755); err != nil {
		return "", fmt.Errorf("creating ingest folder: %w", err)
	}

	archivePath := ""
	if _, err := os.Stat(r.AcceptedDir); err == nil {
		if r.ArchiveAccepted {
			archivePath = fmt.Sprintf("%s_%s_%s",
				r.AcceptedDir,
				time.Now().Format("20060102-150405"),
				uuid.NewString()[:8],
			)
			if err := os.Rename(r.AcceptedDir, archivePath); err != nil {
				return "", fmt.Errorf("archiving accepted folder: %w", err)
			}
			r.logger.Info("archived previous accepted folder", zap.String("path", archivePath))
		} else {
			if err := os.RemoveAll(r.AcceptedDir); err != nil {
				return "", fmt.Errorf("removing accepted folder: %w", err)
			}
		}
	}

	for _, dir := range []string{r.AcceptedDir, r.RejectedDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("creating partition folder %q: %w", dir, err)
		}
	}

	return archivePath, nil
}

// Store copies the named source document into the accepted or rejected
// partition.
func (r *Router) Store(filename string, accepted bool) error {
	target := r.RejectedDir
	if accepted {
		target = r.AcceptedDir
	}

	src := filepath.Join(r.SourceDir, filename)
	dst := filepath.Join(target, filename)

	if err := copyFile(src, dst); err != nil {
		return fmt.Errorf("routing %q to %q: %w", filename, target, err)
	}

	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
