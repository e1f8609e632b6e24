package daemon

import (
	"context"
	"log/slog"
	"time"
)

// TopologyRefresher re-snapshots the monitor topology and reports whether
// the interaction-relevant layout changed.
type TopologyRefresher interface {
	RefreshTopology() (bool, error)
}

// WatcherConfig holds configuration for the topology watcher.
type WatcherConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// Watcher periodically polls the monitor topology so zone resolution follows
// monitor hotplug without RandR event plumbing.
type Watcher struct {
	interval time.Duration
	topo     TopologyRefresher
	logger   *slog.Logger
}

// NewWatcher creates a new topology watcher with the given configuration.
func NewWatcher(cfg WatcherConfig, topo TopologyRefresher) *Watcher {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Watcher{
		interval: interval,
		topo:     topo,
		logger:   logger,
	}
}

// Run starts the poll loop. Blocks until context is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("topology watcher started", "interval", w.interval)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("topology watcher stopped")
			return
		case <-ticker.C:
			w.poll()
		}
	}
}

// poll performs a single topology check.
func (w *Watcher) poll() {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			w.logger.Error("topology watcher panic recovered", "error", err)
		}
	}()

	changed, err := w.topo.RefreshTopology()
	if err != nil {
		w.logger.Error("topology refresh failed", "error", err)
		return
	}
	if changed {
		w.logger.Info("monitor layout changed, zones re-resolved")
	}
}

// PollNow triggers an immediate topology check.
func (w *Watcher) PollNow() {
	w.poll()
}
