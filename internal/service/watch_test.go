package service_test

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/vocablog/internal/service"
)

func TestWatchFile_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vocabulary.txt")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))

	var reloads atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- service.WatchFile(ctx, path, 20*time.Millisecond, func(context.Context) error {
			reloads.Add(1)
			return nil
		}, discard)
	}()

	// writes to another file are ignored; a burst on the watched one is coalesced
	assert.Eventually(t, func() bool {
		_ = os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644)
		for range 3 {
			_ = os.WriteFile(path, []byte("b"), 0o644)
		}
		return reloads.Load() > 0
	}, 2*time.Second, 100*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}
