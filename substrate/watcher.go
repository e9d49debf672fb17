package substrate

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/teranos/plaszyme/errors"
	"github.com/teranos/plaszyme/logger"
)

// DefaultDebounce coalesces bursts of file events into one reload.
const DefaultDebounce = 500 * time.Millisecond

// ReloadCallback is called after the catalog file changed and was reloaded.
// err is non-nil when the new file could not be parsed.
type ReloadCallback func(cat *Catalog, err error)

// Watcher invalidates a Cache when its catalog file changes on disk.
type Watcher struct {
	cache          *Cache
	watcher        *fsnotify.Watcher
	callbacks      []ReloadCallback
	mu             sync.Mutex
	debounceTimer  *time.Timer
	debouncePeriod time.Duration
	done           chan struct{}
}

// NewWatcher watches the directory holding cache's catalog file. Editors
// often replace files by rename, which a watch on the file itself would lose.
func NewWatcher(cache *Cache) (*Watcher, error) {
	if cache.Path() == "" {
		return nil, ErrNoCatalog
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	dir := filepath.Dir(cache.Path())
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, errors.Wrapf(err, "failed to watch %s", dir)
	}

	return &Watcher{
		cache:          cache,
		watcher:        fw,
		debouncePeriod: DefaultDebounce,
		done:           make(chan struct{}),
	}, nil
}

// SetDebounce changes the debounce period. Call before Start.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.debouncePeriod = d
}

// OnReload registers a callback run after each reload.
func (w *Watcher) OnReload(cb ReloadCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, cb)
}

// Start begins watching in a background goroutine.
func (w *Watcher) Start() {
	go w.watchLoop()
}

func (w *Watcher) watchLoop() {
	target := filepath.Clean(w.cache.Path())
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			logger.Debugw("Substrate catalog changed",
				logger.FieldFile, event.Name,
				"op", event.Op.String())
			w.scheduleReload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warnw("Substrate catalog watcher error", logger.FieldError, err)

		case <-w.done:
			return
		}
	}
}

func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debouncePeriod, w.reload)
}

func (w *Watcher) reload() {
	w.cache.Invalidate()
	cat, err := w.cache.Get()
	if err != nil {
		logger.Warnw("Substrate catalog reload failed",
			logger.FieldFile, w.cache.Path(),
			logger.FieldError, err)
	} else {
		logger.Infow("Substrate catalog reloaded",
			logger.FieldFile, w.cache.Path(),
			logger.FieldCount, cat.Len())
	}

	w.mu.Lock()
	callbacks := make([]ReloadCallback, len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.Unlock()

	for _, cb := range callbacks {
		cb(cat, err)
	}
}

// Stop ends watching and cancels any pending reload.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.mu.Unlock()

	select {
	case <-w.done:
	default:
		close(w.done)
	}
	return w.watcher.Close()
}
