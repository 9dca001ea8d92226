// Package backup copies the flat-file snapshots aside on a cron schedule.
// Backups are plain copies; restoring one is dropping it back in place of
// the live file.
package backup

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/crucial707/itemvault/internal/metrics"
)

// Run starts a background cron that copies each path in sources into destDir
// with a timestamped name at every tick of cronExpr. Returns the started cron
// so the caller can Stop it on shutdown.
func Run(cronExpr, destDir string, sources []string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(cronExpr, func() {
		if err := runOnce(destDir, sources, time.Now()); err != nil {
			slog.Error("snapshot backup failed", "error", err)
			metrics.IncBackup("error")
			return
		}
		metrics.IncBackup("completed")
	})
	if err != nil {
		return nil, fmt.Errorf("backup: invalid cron expr %q: %w", cronExpr, err)
	}
	c.Start()
	slog.Info("snapshot backup scheduled", "cron", cronExpr, "dir", destDir)
	return c, nil
}

func runOnce(destDir string, sources []string, now time.Time) error {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return err
	}
	stamp := now.UTC().Format("20060102T150405Z")
	for _, src := range sources {
		if err := copySnapshot(src, destDir, stamp); err != nil {
			return err
		}
	}
	return nil
}

func copySnapshot(src, destDir, stamp string) error {
	in, err := os.Open(src)
	if err != nil {
		if os.IsNotExist(err) {
			// Nothing written yet for this collection; skip.
			return nil
		}
		return err
	}
	defer in.Close()

	base := filepath.Base(src)
	dest := filepath.Join(destDir, fmt.Sprintf("%s.%s", base, stamp))
	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
