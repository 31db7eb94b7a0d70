// Package maintenance runs periodic cleanup of old uploads and artifacts.
package maintenance

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/tajreba/doc-translator/pkg/log"
)

// HistoryPruner removes history rows that finished before the cutoff.
type HistoryPruner interface {
	Prune(ctx context.Context, cutoff time.Time) (int64, error)
}

// Pruner deletes files in the upload directory older than the retention
// window, along with matching history rows.
type Pruner struct {
	dir       string
	retention time.Duration
	history   HistoryPruner
	cron      *cron.Cron
	now       func() time.Time
}

// Option configures a Pruner.
type Option func(*Pruner)

// WithHistory also prunes rows from the given history store.
func WithHistory(h HistoryPruner) Option {
	return func(p *Pruner) { p.history = h }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(p *Pruner) { p.now = now }
}

// NewPruner creates a pruner over dir. A zero retention disables pruning.
func NewPruner(dir string, retention time.Duration, opts ...Option) *Pruner {
	p := &Pruner{
		dir:       dir,
		retention: retention,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start schedules an hourly prune. It is a no-op when retention is zero.
func (p *Pruner) Start() {
	if p.retention <= 0 {
		return
	}
	p.cron = cron.New()
	_, _ = p.cron.AddFunc("@hourly", func() {
		if err := p.RunOnce(context.Background()); err != nil {
			log.Warn("retention prune failed: %v", err)
		}
	})
	p.cron.Start()
}

// Stop cancels the schedule and waits for a running prune to finish.
func (p *Pruner) Stop() {
	if p.cron == nil {
		return
	}
	<-p.cron.Stop().Done()
}

// RunOnce prunes immediately, regardless of the schedule.
func (p *Pruner) RunOnce(ctx context.Context) error {
	if p.retention <= 0 {
		return nil
	}
	cutoff := p.now().Add(-p.retention)

	entries, err := os.ReadDir(p.dir)
	if err != nil {
		return err
	}
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || keepAlways(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		path := filepath.Join(p.dir, entry.Name())
		if err := os.Remove(path); err != nil {
			log.Warn("remove %s: %v", path, err)
			continue
		}
		removed++
	}
	if removed > 0 {
		log.Info("retention prune removed %d file(s) older than %s", removed, p.retention)
	}

	if p.history != nil {
		if _, err := p.history.Prune(ctx, cutoff); err != nil {
			return err
		}
	}
	return nil
}

// keepAlways protects the database files that live alongside uploads.
func keepAlways(name string) bool {
	switch filepath.Ext(name) {
	case ".db", ".db-wal", ".db-shm":
		return true
	}
	return false
}
