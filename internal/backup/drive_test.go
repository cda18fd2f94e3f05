package backup_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/vocablog/internal/backup"
	"github.com/pkordes/vocablog/internal/domain"
)

func newDrive(t *testing.T) *backup.DirDrive {
	t.Helper()
	d, err := backup.NewDirDrive(filepath.Join(t.TempDir(), "drive"))
	require.NoError(t, err)
	return d
}

func localFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDirDrive_UploadDownload(t *testing.T) {
	d := newDrive(t)
	ctx := context.Background()

	id, err := d.Upload(ctx, "vocabulary.txt", localFile(t, "v.txt", "hello"))
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	require.NoError(t, err)

	dst := filepath.Join(t.TempDir(), "restored", "vocabulary.txt")
	require.NoError(t, d.Download(ctx, id, dst))

	raw, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(raw))
}

func TestDirDrive_Upload_InvalidName(t *testing.T) {
	d := newDrive(t)

	_, err := d.Upload(context.Background(), "../escape.txt", localFile(t, "v.txt", "x"))

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDirDrive_Upload_MissingSource(t *testing.T) {
	d := newDrive(t)

	_, err := d.Upload(context.Background(), "v.txt", filepath.Join(t.TempDir(), "none"))

	require.Error(t, err)
	files, err := d.Search(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestDirDrive_Search(t *testing.T) {
	d := newDrive(t)
	ctx := context.Background()
	_, err := d.Upload(ctx, "a.txt", localFile(t, "a", "1"))
	require.NoError(t, err)
	_, err = d.Upload(ctx, "b.json", localFile(t, "b", "2"))
	require.NoError(t, err)
	_, err = d.Upload(ctx, "a.txt", localFile(t, "a2", "3"))
	require.NoError(t, err)

	all, err := d.Search(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	named, err := d.Search(ctx, "a.txt")
	require.NoError(t, err)
	assert.Len(t, named, 2)
	for _, f := range named {
		assert.Equal(t, "a.txt", f.Name)
	}
}

func TestDirDrive_Delete(t *testing.T) {
	d := newDrive(t)
	ctx := context.Background()
	id, err := d.Upload(ctx, "a.txt", localFile(t, "a", "1"))
	require.NoError(t, err)

	require.NoError(t, d.Delete(ctx, id))

	assert.ErrorIs(t, d.Delete(ctx, id), domain.ErrNotFound)
	assert.ErrorIs(t, d.Download(ctx, id, filepath.Join(t.TempDir(), "x")), domain.ErrNotFound)
}

func TestDirDrive_UnknownID(t *testing.T) {
	d := newDrive(t)

	assert.ErrorIs(t, d.Delete(context.Background(), "not-a-uuid"), domain.ErrNotFound)
	assert.ErrorIs(t, d.Delete(context.Background(), uuid.NewString()), domain.ErrNotFound)
}
