// Package monitor watches the metadata source locations and triggers a
// pool refresh when they change. Bursts of filesystem events (a package
// manager rewriting a whole catalog directory) collapse into a single
// rate-limited refresh.
package monitor

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"
)

// Monitor owns an fsnotify watcher over the source paths and invokes the
// change callback at most once per interval.
type Monitor struct {
	watcher  *fsnotify.Watcher
	limiter  *rate.Limiter
	onChange func()
}

// New sets up a monitor over the given paths. Directories are watched
// recursively, matching how the pool scans them. Paths that do not exist
// are skipped; onChange runs on the monitor goroutine, so it must not
// block for long.
func New(paths []string, minInterval time.Duration, onChange func()) (*Monitor, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating filesystem watcher: %w", err)
	}
	watched := 0
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			continue
		}
		if !info.IsDir() {
			if err := watcher.Add(p); err != nil {
				_ = watcher.Close()
				return nil, fmt.Errorf("watching %s: %w", p, err)
			}
			watched++
			continue
		}
		n, err := addTree(watcher, p)
		if err != nil {
			_ = watcher.Close()
			return nil, fmt.Errorf("watching %s: %w", p, err)
		}
		watched += n
	}
	if watched == 0 {
		_ = watcher.Close()
		return nil, fmt.Errorf("none of the %d source paths exists", len(paths))
	}
	return &Monitor{
		watcher:  watcher,
		limiter:  rate.NewLimiter(rate.Every(minInterval), 1),
		onChange: onChange,
	}, nil
}

// addTree watches root and every directory below it. Unreadable
// subdirectories are skipped.
func addTree(watcher *fsnotify.Watcher, root string) (int, error) {
	added := 0
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if err := watcher.Add(p); err != nil {
			return err
		}
		added++
		return nil
	})
	return added, err
}

// Run processes watcher events until the context is cancelled. Events
// arriving while the limiter is exhausted are coalesced and fire one
// deferred callback once the limiter refills.
func (m *Monitor) Run(ctx context.Context) error {
	defer m.watcher.Close()

	const relevant = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename

	var pending *time.Timer
	var pendingC <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if pending != nil {
				pending.Stop()
			}
			return ctx.Err()
		case event, ok := <-m.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&relevant == 0 {
				continue
			}
			// A directory created under a watched tree gets its own watch
			// so changes inside it keep firing.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = m.watcher.Add(event.Name)
				}
			}
			if m.limiter.Allow() {
				m.onChange()
				continue
			}
			if pendingC == nil {
				res := m.limiter.Reserve()
				pending = time.NewTimer(res.Delay())
				pendingC = pending.C
			}
		case <-pendingC:
			pending, pendingC = nil, nil
			m.onChange()
		case err, ok := <-m.watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("filesystem watcher failed: %w", err)
		}
	}
}
