// Package backup periodically copies the service's data files to timestamped
// snapshots and keeps the snapshot count bounded.
package backup

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/akulov/reservd/internal/config"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Rotator copies each configured data file into the backup directory on a
// fixed interval. Once the snapshots for a file exceed the retention count,
// the single oldest snapshot is removed per run.
type Rotator struct {
	dir       string
	interval  time.Duration
	retention int
	files     []string
	log       zerolog.Logger
}

func NewRotator(cfg config.BackupConfig, files []string, logger zerolog.Logger) *Rotator {
	return &Rotator{
		dir:       cfg.Dir,
		interval:  cfg.Interval,
		retention: cfg.Retention,
		files:     files,
		log:       logger,
	}
}

// Run executes a snapshot round on every interval tick until ctx is
// cancelled. A failed round is logged and the next tick tries again.
func (r *Rotator) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Info().Msg("backup rotator stopped")
			return
		case <-ticker.C:
			if err := r.RunOnce(); err != nil {
				r.log.Err(err).Msg("backup round failed")
			}
		}
	}
}

// RunOnce snapshots every configured file and prunes old snapshots.
func (r *Rotator) RunOnce() error {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}

	timestamp := NowTimeFunc().UTC().Format("2006-01-02T15-04-05")

	for _, file := range r.files {
		prefix := snapshotPrefix(file)
		target := filepath.Join(r.dir, fmt.Sprintf("%s-%s.db", prefix, timestamp))

		if err := copyFile(file, target); err != nil {
			r.log.Err(err).Str("file", file).Msg("failed to snapshot data file")
			continue
		}
		r.log.Info().Str("snapshot", target).Msg("backup created")

		if err := r.pruneOldest(prefix); err != nil {
			r.log.Err(err).Str("prefix", prefix).Msg("failed to prune old backups")
		}
	}
	return nil
}

// pruneOldest removes the single oldest snapshot for the prefix once the
// count exceeds the retention limit. Snapshot names embed the timestamp, so
// lexical order is chronological order.
func (r *Rotator) pruneOldest(prefix string) error {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return fmt.Errorf("read backup dir: %w", err)
	}

	var snapshots []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasPrefix(entry.Name(), prefix+"-") {
			snapshots = append(snapshots, entry.Name())
		}
	}
	if len(snapshots) <= r.retention {
		return nil
	}

	sort.Strings(snapshots)
	oldest := filepath.Join(r.dir, snapshots[0])
	if err := os.Remove(oldest); err != nil {
		return fmt.Errorf("remove oldest snapshot: %w", err)
	}
	r.log.Info().Str("snapshot", oldest).Msg("oldest backup removed")
	return nil
}

// snapshotPrefix turns "./data/users.db" into "users-backup".
func snapshotPrefix(path string) string {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return name + "-backup"
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return out.Close()
}
