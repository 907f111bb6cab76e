package chartstore

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seen struct {
	mu  sync.Mutex
	ids []string
}

func (s *seen) add(_ context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = append(s.ids, id)
}

func (s *seen) list() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.ids...)
}

func TestWatcher_DebouncesChartEdits(t *testing.T) {
	dir := t.TempDir()
	got := &seen{}
	w, err := NewWatcher(dir, got.add, WithDebounce(40*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	path := filepath.Join(dir, "sales.yml")
	for i := range 5 {
		require.NoError(t, os.WriteFile(path, []byte{byte('a' + i)}, 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	require.Eventually(t, func() bool { return len(got.list()) > 0 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	for _, id := range got.list() {
		assert.Equal(t, "sales", id)
	}
}

func TestWatcher_SeesFileStoreWrites(t *testing.T) {
	dir := t.TempDir()
	got := &seen{}
	w, err := NewWatcher(dir, got.add, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	_, err = NewFileStore(dir).Put(ctx, sampleChart("sales"))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		ids := got.list()
		return len(ids) > 0 && ids[0] == "sales"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_RunStopsOnCancel(t *testing.T) {
	w, err := NewWatcher(t.TempDir(), func(context.Context, string) {})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
}

func TestWatcher_StartMissingDir(t *testing.T) {
	w, err := NewWatcher(filepath.Join(t.TempDir(), "absent"), func(context.Context, string) {})
	require.NoError(t, err)
	defer w.Stop()
	assert.Error(t, w.Start(context.Background()))
}
