// Package backup defines the cloud drive the data files are backed up to and
// a directory-backed implementation of it.
package backup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"

	"github.com/pkordes/vocablog/internal/domain"
)

// File is a stored backup as reported by a Drive.
type File struct {
	ID   string
	Name string
}

// Drive is the backup collaborator. Ids are opaque to callers.
type Drive interface {
	// Upload stores the local file at path under name and returns its id.
	Upload(ctx context.Context, name, path string) (string, error)
	// Download writes the stored file id to the local path.
	// Returns domain.ErrNotFound for an unknown id.
	Download(ctx context.Context, id, path string) error
	// Search returns every stored file called name; an empty name lists all.
	Search(ctx context.Context, name string) ([]File, error)
	// Delete removes a stored file. Returns domain.ErrNotFound for an unknown id.
	Delete(ctx context.Context, id string) error
}

// DirDrive keeps each upload in its own directory root/<id>/<name>.
type DirDrive struct {
	root string
}

// NewDirDrive returns a Drive rooted at dir, creating it if needed.
func NewDirDrive(dir string) (*DirDrive, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("backup.NewDirDrive: %w", err)
	}
	return &DirDrive{root: dir}, nil
}

var _ Drive = (*DirDrive)(nil)

// Upload copies path into a fresh uuid-named directory.
func (d *DirDrive) Upload(ctx context.Context, name, path string) (string, error) {
	if name == "" || filepath.Base(name) != name {
		return "", fmt.Errorf("backup.DirDrive.Upload: %w: invalid file name %q", domain.ErrValidation, name)
	}
	id := uuid.NewString()
	dir := filepath.Join(d.root, id)
	if err := os.Mkdir(dir, 0o755); err != nil {
		return "", fmt.Errorf("backup.DirDrive.Upload: %w", err)
	}
	if err := copyFile(ctx, path, filepath.Join(dir, name)); err != nil {
		os.RemoveAll(dir) //nolint:errcheck // best-effort cleanup
		return "", fmt.Errorf("backup.DirDrive.Upload: %w", err)
	}
	return id, nil
}

// Download copies the stored file to path.
func (d *DirDrive) Download(ctx context.Context, id, path string) error {
	f, err := d.lookup(id)
	if err != nil {
		return fmt.Errorf("backup.DirDrive.Download: %w", err)
	}
	if err := copyFile(ctx, filepath.Join(d.root, f.ID, f.Name), path); err != nil {
		return fmt.Errorf("backup.DirDrive.Download: %w", err)
	}
	return nil
}

// Search lists stored files, optionally filtered by exact name.
func (d *DirDrive) Search(ctx context.Context, name string) ([]File, error) {
	entries, err := os.ReadDir(d.root)
	if err != nil {
		return nil, fmt.Errorf("backup.DirDrive.Search: %w", err)
	}
	files := []File{}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		f, err := d.lookup(e.Name())
		if err != nil {
			continue
		}
		if name == "" || f.Name == name {
			files = append(files, f)
		}
	}
	sort.Slice(files, func(i, j int) bool {
		if files[i].Name != files[j].Name {
			return files[i].Name < files[j].Name
		}
		return files[i].ID < files[j].ID
	})
	return files, nil
}

// Delete removes the stored file and its directory.
func (d *DirDrive) Delete(ctx context.Context, id string) error {
	if _, err := d.lookup(id); err != nil {
		return fmt.Errorf("backup.DirDrive.Delete: %w", err)
	}
	if err := os.RemoveAll(filepath.Join(d.root, id)); err != nil {
		return fmt.Errorf("backup.DirDrive.Delete: %w", err)
	}
	return nil
}

// lookup resolves an id to its stored file.
func (d *DirDrive) lookup(id string) (File, error) {
	if _, err := uuid.Parse(id); err != nil {
		return File{}, fmt.Errorf("%w: backup %q", domain.ErrNotFound, id)
	}
	entries, err := os.ReadDir(filepath.Join(d.root, id))
	if errors.Is(err, fs.ErrNotExist) {
		return File{}, fmt.Errorf("%w: backup %q", domain.ErrNotFound, id)
	}
	if err != nil {
		return File{}, err
	}
	for _, e := range entries {
		if e.Type().IsRegular() {
			return File{ID: id, Name: e.Name()}, nil
		}
	}
	return File{}, fmt.Errorf("%w: backup %q is empty", domain.ErrNotFound, id)
}

func copyFile(ctx context.Context, src, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
