package file

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/docqa/internal/logger"
)

// PromptWatcher reloads a PromptStore when prompt files change on disk.
type PromptWatcher struct {
	store   *PromptStore
	watcher *fsnotify.Watcher

	wg        sync.WaitGroup
	closeOnce sync.Once
	done      chan struct{}
}

// NewPromptWatcher creates a watcher on the store's prompt directory.
// The directory is created if needed.
func NewPromptWatcher(store *PromptStore) (*PromptWatcher, error) {
	store.initOnce.Do(store.initialise)
	if store.initErr != nil {
		return nil, fmt.Errorf("prepare prompt directory: %w", store.initErr)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(store.Dir()); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch %s: %w", store.Dir(), err)
	}

	return &PromptWatcher{
		store:   store,
		watcher: w,
		done:    make(chan struct{}),
	}, nil
}

// Start processes events in the background until ctx is cancelled or Close is called.
func (w *PromptWatcher) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-w.done:
				return
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if w.handleEvent(event) {
					logger.Debug("prompt file changed: %s", filepath.Base(event.Name))
				}
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("prompt watcher: %v", err)
			}
		}
	}()
}

// handleEvent reloads the store for relevant events and reports whether it did.
func (w *PromptWatcher) handleEvent(event fsnotify.Event) bool {
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") || filepath.Ext(name) != promptExt {
		return false
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}

	w.store.Reload()
	return true
}

// Close stops the watcher and waits for the event loop to exit.
func (w *PromptWatcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.watcher.Close()
		w.wg.Wait()
	})
	return err
}
