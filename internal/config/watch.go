package config

import (
	"context"
	"os"
	"time"
)

// WatchHours reloads hours.yaml on change and calls onUpdate with the latest contents.
// It performs an initial load before entering the watch loop. A file that fails to
// parse is ignored until it changes again.
func WatchHours(ctx context.Context, path string, interval time.Duration, onUpdate func(*HoursConfig)) error {
	if path == "" {
		path = "configs/hours.yaml"
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}

	cfg, err := LoadHoursConfig(path)
	if err != nil {
		return err
	}
	if onUpdate != nil {
		onUpdate(cfg)
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	lastMod := info.ModTime()

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				info, err := os.Stat(path)
				if err != nil {
					continue // transient errors
				}
				if !info.ModTime().After(lastMod) {
					continue
				}
				lastMod = info.ModTime()
				cfg, err := LoadHoursConfig(path)
				if err != nil {
					continue
				}
				if onUpdate != nil {
					onUpdate(cfg)
				}
			}
		}
	}()

	return nil
}
