package watch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Spencer17x/vue-next-zh/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const siteTemplate = `title: %s
basePath: /b/
theme:
  nav:
    - {text: Home, link: /}
  sidebar:
    - title: G
      children:
        - [/a/, A]
`

func writeSite(t *testing.T, path, title string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf(siteTemplate, title)), 0o644))
}

func TestSnapshot_SwapKeepsReadersFrozen(t *testing.T) {
	first := &config.SiteConfig{Title: "first"}
	snap := NewSnapshot(first)

	inFlight := snap.Current()
	old := snap.Swap(&config.SiteConfig{Title: "second"})

	assert.Same(t, first, old)
	assert.Equal(t, "first", inFlight.Title)
	assert.Equal(t, "second", snap.Current().Title)
	assert.Equal(t, uint64(1), snap.Version())
}

func TestSnapshot_ConcurrentReaders(t *testing.T) {
	snap := NewSnapshot(&config.SiteConfig{Title: "v0"})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				cfg := snap.Current()
				assert.NotEmpty(t, cfg.Title)
			}
		}()
	}
	for i := 0; i < 50; i++ {
		snap.Swap(&config.SiteConfig{Title: "next"})
	}
	wg.Wait()
	assert.Equal(t, uint64(50), snap.Version())
}

func TestWatcher_Reload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "site.yaml")
	writeSite(t, path, "one")

	initial, err := config.LoadValid(path)
	require.NoError(t, err)
	snap := NewSnapshot(initial)

	var swapped []string
	w, err := NewWatcher(path, snap, zerolog.New(io.Discard), OnSwap(func(cfg *config.SiteConfig) {
		swapped = append(swapped, cfg.Title)
	}))
	require.NoError(t, err)
	defer w.fs.Close()

	writeSite(t, path, "two")
	require.NoError(t, w.Reload())
	assert.Equal(t, "two", snap.Current().Title)

	writeSite(t, path, `""`)
	require.Error(t, w.Reload())
	assert.Equal(t, "two", snap.Current().Title, "an invalid config never replaces the snapshot")

	assert.Equal(t, []string{"two"}, swapped)
}

func TestWatcher_RunPicksUpChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "site.yaml")
	writeSite(t, path, "one")

	initial, err := config.LoadValid(path)
	require.NoError(t, err)
	snap := NewSnapshot(initial)

	w, err := NewWatcher(path, snap, zerolog.New(io.Discard), WithDebounce(20*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Unrelated files in the directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1"), 0o644))
	writeSite(t, path, "two")

	assert.Eventually(t, func() bool {
		return snap.Current().Title == "two"
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcher_CustomLoader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "site.yaml")
	writeSite(t, path, "one")

	snap := NewSnapshot(nil)
	w, err := NewWatcher(path, snap, zerolog.New(io.Discard), WithLoader(func(p string) (*config.SiteConfig, error) {
		return &config.SiteConfig{Title: filepath.Base(p)}, nil
	}))
	require.NoError(t, err)
	defer w.fs.Close()

	require.NoError(t, w.Reload())
	assert.Equal(t, "site.yaml", snap.Current().Title)
}
