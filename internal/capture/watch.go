package capture

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultSettle is how long the artifact must stay quiet before it is
// considered completely written.
const DefaultSettle = 250 * time.Millisecond

// Watch reports when a device that was not observed by this process finishes
// writing path. It is used after a restart, when the original completion
// channel is gone but the device may still be working.
//
// The result is a success once the file exists and has seen no writes for
// settle; ErrTimeout after timeout (zero means no limit); ctx.Err() on
// cancellation. Exactly one Result is sent, then the channel is closed.
func Watch(ctx context.Context, req Request, timeout, settle time.Duration) (<-chan Result, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	dir := filepath.Dir(req.Output)
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	if settle <= 0 {
		settle = DefaultSettle
	}

	ch := make(chan Result, 1)
	go func() {
		defer close(ch)
		defer w.Close()
		ch <- Result{RequestID: req.ID, Err: waitForArtifact(ctx, w, req.Output, timeout, settle)}
	}()

	return ch, nil
}

func waitForArtifact(ctx context.Context, w *fsnotify.Watcher, path string, timeout, settle time.Duration) error {
	var deadline <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		deadline = t.C
	}

	quiet := time.NewTimer(settle)
	defer quiet.Stop()
	if _, err := os.Stat(path); err != nil {
		// nothing there yet; wait for the first event before settling
		quiet.Stop()
	}

	name := filepath.Base(path)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-deadline:
			return ErrTimeout

		case event, ok := <-w.Events:
			if !ok {
				return ErrNoArtifact
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) || event.Has(fsnotify.Rename) {
				resetTimer(quiet, settle)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return ErrNoArtifact
			}
			return fmt.Errorf("watch %s: %w", path, err)

		case <-quiet.C:
			fi, err := os.Stat(path)
			if err != nil || !fi.Mode().IsRegular() {
				// renamed away or removed again; keep waiting
				continue
			}
			return nil
		}
	}
}

func resetTimer(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}
