package configwatcher

import (
	"context"
	"path/filepath"
	"sdo_backend/internal/config"
	"sdo_backend/pkg/logger"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ConfigReloader receives the freshly loaded configuration.
type ConfigReloader func(cfg *config.Config)

const debounce = time.Second

// WatchConfig reloads the config file on every write and hands the result to
// each reloader. Bursts of writes are collapsed. It returns when ctx is done.
func WatchConfig(ctx context.Context, configFile string, reloaders ...ConfigReloader) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	absPath, err := filepath.Abs(configFile)
	if err != nil {
		return err
	}
	if err := watcher.Add(absPath); err != nil {
		return err
	}

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				timer.Reset(debounce)
			}
		case <-timer.C:
			newCfg, err := config.LoadConfig(filepath.Dir(absPath))
			if err != nil {
				logger.Log.Error("Failed to reload config", zap.Error(err))
				continue
			}
			logger.Log.Info("Config reloaded", zap.String("file", absPath))
			for _, reload := range reloaders {
				reload(newCfg)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Log.Error("Config watcher error", zap.Error(err))
		}
	}
}
