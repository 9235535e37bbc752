package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

const backupStamp = "2006-01-02_15-04-05"

// Backup copies locally stored uploads into timestamped folders and prunes
// the ones older than Retention.
type Backup struct {
	Src       string
	Dst       string
	Retention time.Duration
	Log       *zap.Logger

	now func() time.Time
}

func (b *Backup) clock() time.Time {
	if b.now != nil {
		return b.now()
	}
	return time.Now()
}

// RunOnce copies Src into Dst/<timestamp> and removes expired backups. It
// returns the new backup folder.
func (b *Backup) RunOnce() (string, error) {
	dest := filepath.Join(b.Dst, b.clock().Format(backupStamp))
	if err := copyDir(b.Src, dest); err != nil {
		return "", fmt.Errorf("back up uploads: %w", err)
	}
	b.prune()
	return dest, nil
}

// RunDaily runs a backup every day at hour:min until ctx is done.
func (b *Backup) RunDaily(ctx context.Context, hour, min int) {
	for {
		now := b.clock()
		next := time.Date(now.Year(), now.Month(), now.Day(), hour, min, 0, 0, now.Location())
		if !next.After(now) {
			next = next.Add(24 * time.Hour)
		}
		b.Log.Info("next uploads backup", zap.Time("at", next))

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		dest, err := b.RunOnce()
		if err != nil {
			b.Log.Error("uploads backup failed", zap.Error(err))
			continue
		}
		b.Log.Info("uploads backed up", zap.String("dest", dest))
	}
}

func (b *Backup) prune() {
	entries, err := os.ReadDir(b.Dst)
	if err != nil {
		b.Log.Warn("read backup folder", zap.Error(err))
		return
	}

	cutoff := b.clock().Add(-b.Retention)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		taken, err := time.ParseInLocation(backupStamp, entry.Name(), time.Local)
		if err != nil || !taken.Before(cutoff) {
			continue
		}
		path := filepath.Join(b.Dst, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			b.Log.Warn("remove old backup", zap.String("path", path), zap.Error(err))
			continue
		}
		b.Log.Info("removed old backup", zap.String("path", path))
	}
}

func copyDir(src, dest string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return err
	}
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		destPath := filepath.Join(dest, entry.Name())
		if entry.IsDir() {
			err = copyDir(srcPath, destPath)
		} else {
			err = copyFile(srcPath, destPath)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err = io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
