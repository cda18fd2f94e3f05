package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/pkordes/vocablog/internal/backup"
	"github.com/pkordes/vocablog/internal/domain"
)

// BackupService copies the data files to a backup.Drive and back.
// Each file is stored under its path relative to the data directory, escaped
// into a single name; a new upload replaces older backups of the same file.
type BackupService struct {
	drive    backup.Drive
	dataDir  string
	patterns []string
	logger   *slog.Logger
}

// NewBackupService constructs a BackupService for the files in dataDir that
// match any of patterns (doublestar syntax, ** allowed).
func NewBackupService(drive backup.Drive, dataDir string, patterns []string, logger *slog.Logger) *BackupService {
	if logger == nil {
		logger = slog.Default()
	}
	return &BackupService{drive: drive, dataDir: dataDir, patterns: patterns, logger: logger}
}

// Files returns the data files selected for backup, relative to the data
// directory, sorted and deduplicated.
func (s *BackupService) Files(ctx context.Context) ([]string, error) {
	fsys := os.DirFS(s.dataDir)
	var out []string
	for _, pattern := range s.patterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("service.BackupService.Files: %w: bad pattern %q", domain.ErrValidation, pattern)
		}
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("service.BackupService.Files: %w", err)
		}
		out = append(out, matches...)
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

// Backup uploads every selected file and removes the previous backups of it.
// Returns the uploaded files.
func (s *BackupService) Backup(ctx context.Context) ([]backup.File, error) {
	files, err := s.Files(ctx)
	if err != nil {
		return nil, err
	}

	uploaded := make([]backup.File, 0, len(files))
	for _, rel := range files {
		name := url.PathEscape(rel)
		old, err := s.drive.Search(ctx, name)
		if err != nil {
			return uploaded, fmt.Errorf("service.BackupService.Backup: search %s: %w", name, err)
		}
		id, err := s.drive.Upload(ctx, name, filepath.Join(s.dataDir, filepath.FromSlash(rel)))
		if err != nil {
			return uploaded, fmt.Errorf("service.BackupService.Backup: upload %s: %w", name, err)
		}
		for _, f := range old {
			if err := s.drive.Delete(ctx, f.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
				s.logger.Warn("stale backup not removed", "name", name, "id", f.ID, "error", err)
			}
		}
		uploaded = append(uploaded, backup.File{ID: id, Name: name})
		s.logger.Info("file backed up", "file", rel, "id", id)
	}
	return uploaded, nil
}

// List returns every stored backup.
func (s *BackupService) List(ctx context.Context) ([]backup.File, error) {
	files, err := s.drive.Search(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("service.BackupService.List: %w", err)
	}
	return files, nil
}

// Restore downloads the backup of rel into the data directory, overwriting
// the local file. Returns domain.ErrNotFound when no backup exists.
func (s *BackupService) Restore(ctx context.Context, rel string) error {
	rel = filepath.ToSlash(filepath.Clean(rel))
	if rel == "." || !fs.ValidPath(rel) {
		return fmt.Errorf("service.BackupService.Restore: %w: invalid path %q", domain.ErrValidation, rel)
	}
	name := url.PathEscape(rel)
	found, err := s.drive.Search(ctx, name)
	if err != nil {
		return fmt.Errorf("service.BackupService.Restore: %w", err)
	}
	if len(found) == 0 {
		return fmt.Errorf("service.BackupService.Restore: %w: no backup of %s", domain.ErrNotFound, rel)
	}

	dst := filepath.Join(s.dataDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("service.BackupService.Restore: %w", err)
	}
	if err := s.drive.Download(ctx, found[0].ID, dst); err != nil {
		return fmt.Errorf("service.BackupService.Restore: %w", err)
	}
	s.logger.Info("file restored", "file", rel, "id", found[0].ID)
	return nil
}
