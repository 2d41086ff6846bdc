// Package watcher monitors the library file for external edits and triggers
// a reload when its content actually changes.
package watcher

import (
	"context"
	"crypto/sha256"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/cmdshelf/cmdshelf/internal/event"
	"github.com/cmdshelf/cmdshelf/internal/logging"
)

// debounce coalesces the burst of filesystem events an editor save produces.
const debounce = 100 * time.Millisecond

// Reloader is the slice of the command service the watcher drives.
type Reloader interface {
	Reload(ctx context.Context) error
}

// Watcher reloads the library when its backing file changes on disk.
type Watcher struct {
	filePath string
	reloader Reloader

	mu       sync.Mutex
	lastHash [sha256.Size]byte
	watcher  *fsnotify.Watcher
	started  bool
	unsub    func()

	stopCh chan struct{}
	doneCh chan struct{}
}

// New creates a watcher for the given library file. The parent directory is
// created if missing so the watch can be established before the first save.
func New(filePath string, reloader Reloader) (*Watcher, error) {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory rather than the file: atomic saves replace the
	// file by rename, which drops a direct file watch.
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		filePath: filePath,
		reloader: reloader,
		watcher:  fsw,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	w.lastHash = hashFile(filePath)
	return w, nil
}

// Start begins watching. Safe to call once.
func (w *Watcher) Start() {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return
	}
	w.started = true
	// After any library update the durable copy matches memory, so the
	// current file content is the new baseline. This keeps the service's
	// own saves from reading back as external edits.
	w.unsub = event.Subscribe(event.LibraryUpdated, func(event.Event) {
		w.mu.Lock()
		w.lastHash = hashFile(w.filePath)
		w.mu.Unlock()
	})
	w.mu.Unlock()

	logging.Info().Str("file", w.filePath).Msg("library watcher started")
	go w.run()
}

func (w *Watcher) run() {
	defer close(w.doneCh)

	var timer *time.Timer
	var timerCh <-chan time.Time

	w.mu.Lock()
	events, errs := w.watcher.Events, w.watcher.Errors
	w.mu.Unlock()

	for {
		select {
		case <-w.stopCh:
			return
		case ev, ok := <-events:
			if !ok {
				events, errs = w.rearm()
				continue
			}
			if ev.Name != w.filePath {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			timerCh = timer.C
		case <-timerCh:
			timerCh = nil
			w.checkChanged()
		case err, ok := <-errs:
			if !ok {
				events, errs = w.rearm()
				continue
			}
			logging.Error().Err(err).Msg("library watcher error")
		}
	}
}

// checkChanged compares content before reloading so touch events and the
// service's own saves do not trigger redundant reloads.
func (w *Watcher) checkChanged() {
	hash := hashFile(w.filePath)

	w.mu.Lock()
	changed := hash != w.lastHash
	if changed {
		w.lastHash = hash
	}
	w.mu.Unlock()

	if !changed {
		return
	}

	logging.Info().Str("file", w.filePath).Msg("library file changed externally, reloading")
	if err := w.reloader.Reload(context.Background()); err != nil {
		logging.Error().Err(err).Msg("failed to reload library")
	}
}

// rearm rebuilds the fsnotify watcher with exponential backoff after its
// channels close, which happens when the watched directory goes away.
// Returns the new event and error channels for the run loop.
func (w *Watcher) rearm() (chan fsnotify.Event, chan error) {
	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = 0

	var fsw *fsnotify.Watcher
	err := backoff.Retry(func() error {
		select {
		case <-w.stopCh:
			return nil
		default:
		}

		candidate, err := fsnotify.NewWatcher()
		if err != nil {
			return err
		}
		dir := filepath.Dir(w.filePath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			candidate.Close()
			return err
		}
		if err := candidate.Add(dir); err != nil {
			candidate.Close()
			return err
		}
		fsw = candidate
		return nil
	}, policy)
	if err != nil || fsw == nil {
		logging.Error().Err(err).Msg("failed to re-establish library watch")
		// Dead channels: the run loop keeps serving stop and timer cases.
		return nil, nil
	}

	w.mu.Lock()
	old := w.watcher
	w.watcher = fsw
	w.mu.Unlock()
	old.Close()

	return fsw.Events, fsw.Errors
}

// Stop stops the watcher and waits for the run loop to exit.
func (w *Watcher) Stop() error {
	select {
	case <-w.stopCh:
	default:
		close(w.stopCh)
	}

	w.mu.Lock()
	started := w.started
	unsub := w.unsub
	fsw := w.watcher
	w.mu.Unlock()

	if unsub != nil {
		unsub()
	}
	err := fsw.Close()
	if started {
		<-w.doneCh
	}
	return err
}

func hashFile(path string) [sha256.Size]byte {
	data, err := os.ReadFile(path)
	if err != nil {
		return sha256.Sum256(nil)
	}
	return sha256.Sum256(data)
}
