package yt

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// Sweep removes regular files in dir last modified before now-olderThan.
func Sweep(dir string, olderThan time.Duration, now time.Time) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	cutoff := now.Add(-olderThan)
	removed := 0
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err == nil {
			removed++
		}
	}
	return removed, nil
}

// RunJanitor sweeps dir every retention/2 until ctx is done.
func RunJanitor(ctx context.Context, dir string, retention time.Duration, log *zap.Logger) {
	if retention <= 0 {
		return
	}
	ticker := time.NewTicker(retention / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := Sweep(dir, retention, now)
			if err != nil {
				log.Warn("Не вдалося очистити теку завантажень", zap.String("dir", dir), zap.Error(err))
				continue
			}
			if n > 0 {
				log.Info("Видалено старі файли", zap.Int("count", n), zap.String("dir", dir))
			}
		}
	}
}
