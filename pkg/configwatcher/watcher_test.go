package configwatcher

import (
	"context"
	"os"
	"path/filepath"
	"sdo_backend/internal/config"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatchConfigReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte("lifecycle:\n  strict_transitions: true\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *config.Config, 1)
	done := make(chan error, 1)
	go func() {
		done <- WatchConfig(ctx, file, func(cfg *config.Config) {
			select {
			case reloaded <- cfg:
			default:
			}
		})
	}()

	// give the watcher time to register
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, os.WriteFile(file, []byte("lifecycle:\n  strict_transitions: false\n"), 0o644))

	select {
	case cfg := <-reloaded:
		require.False(t, cfg.Lifecycle.StrictTransitions)
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}

	cancel()
	require.NoError(t, <-done)
}

func TestWatchConfigMissingFile(t *testing.T) {
	err := WatchConfig(context.Background(), filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
