//go:build linux || darwin

package procman

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"vawter.tech/stopper"
)

// watchState tracks the last observed status for change detection
type watchState struct {
	mu        sync.Mutex
	last      Status
	seen      bool
	closed    bool
	debouncer *time.Timer
}

// changed reports whether st differs from the last observed status in
// any field a watcher cares about.
func (w *watchState) changed(st Status) bool {
	if !w.seen {
		return true
	}
	return st.State != w.last.State || st.PID != w.last.PID || !st.Since.Equal(w.last.Since)
}

// Watch monitors the record for name and emits a Status event on every
// change, including record removal. The first event reports the current
// status. The returned cleanup function stops the watch and closes the
// channel.
func (c *Client) Watch(ctx context.Context, name string) (<-chan WatchEvent, WatchCleanupFunc, error) {
	recordFile := filepath.Base(recordPath(c.StateDir, name))

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, &OpError{Op: OpWatch, Path: c.StateDir, Err: err}
	}

	if err := watcher.Add(c.StateDir); err != nil {
		_ = watcher.Close()
		return nil, nil, &OpError{Op: OpWatch, Path: c.StateDir, Err: err}
	}

	ch := make(chan WatchEvent, 10)

	// Create stopper context for managing goroutine lifecycle
	sctx := stopper.WithContext(ctx)

	state := &watchState{}

	// Register watcher cleanup with stopper. The closed flag is set under
	// state.mu before closing, so a debounce callback already past its
	// stopping check cannot send on the closed channel.
	sctx.Defer(func() {
		state.mu.Lock()
		state.closed = true
		state.mu.Unlock()
		_ = watcher.Close()
		close(ch)
	})

	cleanup := func() error {
		sctx.Stop(100 * time.Millisecond) // Graceful stop with 100ms grace period
		return sctx.Wait()
	}

	// Sends happen under state.mu; once stopping, the Stopping case keeps
	// them from blocking the cleanup Defer waiting on the same mutex.
	readAndSend := func() {
		if sctx.IsStopping() {
			return
		}

		status, err := c.Status(ctx, name)

		state.mu.Lock()
		defer state.mu.Unlock()

		if state.closed {
			return
		}

		if err != nil {
			select {
			case ch <- WatchEvent{Err: err}:
			case <-sctx.Stopping():
			}
			return
		}

		if !state.changed(status) {
			return
		}
		state.last = status
		state.seen = true

		select {
		case ch <- WatchEvent{Status: status}:
		case <-sctx.Stopping():
		}
	}

	// Initial read
	readAndSend()

	sctx.Go(func(sctx *stopper.Context) error {
		sctx.Defer(func() {
			state.mu.Lock()
			if state.debouncer != nil {
				state.debouncer.Stop()
			}
			state.mu.Unlock()
		})

		for !sctx.IsStopping() {
			select {
			case <-sctx.Stopping():
				return nil

			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}

				if filepath.Base(event.Name) == recordFile {
					state.mu.Lock()
					if state.debouncer != nil {
						state.debouncer.Stop()
					}
					state.debouncer = time.AfterFunc(c.WatchDebounce, readAndSend)
					state.mu.Unlock()
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				if err != nil && !sctx.IsStopping() {
					select {
					case ch <- WatchEvent{Err: err}:
					case <-sctx.Stopping():
						return nil
					}
				}
			}
		}
		return nil
	})

	return ch, cleanup, nil
}
