package manifest

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teranos/tealdoc/errors"
	"github.com/teranos/tealdoc/logger"
	"github.com/teranos/tealdoc/schema"
	"github.com/teranos/tealdoc/walker"
)

// RebuildCallback receives each freshly built document. ctx carries the
// rebuild's pass ID for logging (see logger.LoggerFromContext).
type RebuildCallback func(ctx context.Context, doc schema.Document) error

// ErrorCallback receives load and build failures.
type ErrorCallback func(error)

// DefaultDebounce coalesces the bursts of events editors produce on save.
const DefaultDebounce = 100 * time.Millisecond

// Watcher rebuilds a manifest whenever its file changes.
//
// The manifest's directory is watched rather than the file itself, so
// editors that save by renaming a temporary file are still seen.
type Watcher struct {
	path     string
	opts     []walker.Option
	watcher  *fsnotify.Watcher
	log      *zap.SugaredLogger
	debounce time.Duration

	mu            sync.Mutex
	callbacks     []RebuildCallback
	errCallbacks  []ErrorCallback
	debounceTimer *time.Timer
	started       bool
	stopped       bool

	rebuildMu sync.Mutex
	done      chan struct{}
}

// NewWatcher prepares a watcher for the manifest at path. opts are passed to
// the walker on every rebuild.
func NewWatcher(path string, opts ...walker.Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve %s", path)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, errors.Wrapf(err, "failed to watch directory of %s", path)
	}

	return &Watcher{
		path:     abs,
		opts:     opts,
		watcher:  fw,
		log:      logger.ComponentLogger("watcher"),
		debounce: DefaultDebounce,
		done:     make(chan struct{}),
	}, nil
}

// SetDebounce changes the quiet period before a rebuild. Call before Start.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.debounce = d
}

// SetLogger replaces the watcher's logger. Call before Start.
func (w *Watcher) SetLogger(log *zap.SugaredLogger) {
	if log != nil {
		w.log = log
	}
}

// OnRebuild registers a callback run after every successful build.
func (w *Watcher) OnRebuild(cb RebuildCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, cb)
}

// OnError registers a callback run when loading or building fails.
func (w *Watcher) OnError(cb ErrorCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.errCallbacks = append(w.errCallbacks, cb)
}

// Start begins watching for changes.
func (w *Watcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return
	}
	w.started = true
	go w.watchLoop()
}

// Stop stops watching and waits for the event loop and any scheduled
// rebuild to finish. No callback runs after Stop returns.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	w.stopped = true
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	started := w.started
	w.mu.Unlock()

	err := w.watcher.Close()
	if started {
		<-w.done
	}

	// Wait out a rebuild whose timer fired before Stop
	w.rebuildMu.Lock()
	w.rebuildMu.Unlock()
	return err
}

func (w *Watcher) watchLoop() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.log.Debugw("Manifest changed",
				logger.FieldFile, event.Name,
				"op", event.Op.String())
			w.scheduleRebuild()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warnw("Manifest watcher error", logger.FieldError, err)
		}
	}
}

// scheduleRebuild debounces rapid file changes and triggers a rebuild
func (w *Watcher) scheduleRebuild() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounce, w.scheduledRebuild)
}

// scheduledRebuild runs when the debounce timer fires. Failures reach the
// error callbacks.
func (w *Watcher) scheduledRebuild() {
	w.rebuildMu.Lock()
	defer w.rebuildMu.Unlock()

	w.mu.Lock()
	stopped := w.stopped
	w.mu.Unlock()
	if stopped {
		return
	}
	_, _ = w.rebuild()
}

// Rebuild loads and builds the manifest now and runs the callbacks.
// Concurrent calls are serialised.
func (w *Watcher) Rebuild() (schema.Document, error) {
	w.rebuildMu.Lock()
	defer w.rebuildMu.Unlock()
	return w.rebuild()
}

func (w *Watcher) rebuild() (schema.Document, error) {
	passID := uuid.NewString()
	ctx := logger.WithComponent(logger.WithPassID(context.Background(), passID), "watcher")
	log := w.log.With(logger.FieldsFromContext(ctx)...)

	start := time.Now()
	doc, err := w.build(passID)
	if err != nil {
		log.Errorw("Manifest rebuild failed",
			logger.FieldFile, w.path,
			logger.FieldError, err)
		for _, cb := range w.errorCallbacks() {
			cb(err)
		}
		return schema.Document{}, err
	}

	log.Infow("Manifest rebuilt",
		logger.FieldFile, w.path,
		logger.FieldNodes, len(doc.Nodes),
		logger.FieldDurationMS, time.Since(start).Milliseconds())

	for _, cb := range w.rebuildCallbacks() {
		if err := cb(ctx, doc); err != nil {
			// Continue calling other callbacks even if one fails
			log.Warnw("Rebuild callback error", logger.FieldError, err)
		}
	}
	return doc, nil
}

func (w *Watcher) build(passID string) (schema.Document, error) {
	m, err := Load(w.path)
	if err != nil {
		return schema.Document{}, err
	}
	opts := append(w.opts[:len(w.opts):len(w.opts)], walker.WithPassID(passID))
	return Build(m, opts...)
}

func (w *Watcher) rebuildCallbacks() []RebuildCallback {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]RebuildCallback(nil), w.callbacks...)
}

func (w *Watcher) errorCallbacks() []ErrorCallback {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]ErrorCallback(nil), w.errCallbacks...)
}
