// Package watch reloads stores when their backing file changes on disk.
//
// Stores never watch files themselves; a Watcher calls their Reload after a
// burst of filesystem events has settled.
package watch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/drix00/xray-spectrum-analyzer/errors"
	"github.com/drix00/xray-spectrum-analyzer/logger"
)

// DefaultDebounce is how long a file must stay quiet before reloading.
const DefaultDebounce = 500 * time.Millisecond

// Reloader is implemented by every store.
type Reloader interface {
	Reload(ctx context.Context) error
}

// ReloaderFunc adapts a function to Reloader.
type ReloaderFunc func(ctx context.Context) error

func (f ReloaderFunc) Reload(ctx context.Context) error { return f(ctx) }

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithResultHook is called after every reload with its outcome.
func WithResultHook(fn func(path string, err error)) Option {
	return func(w *Watcher) { w.onResult = fn }
}

// Watcher watches one file. The parent directory is watched so that
// editors replacing the file by rename are seen too.
type Watcher struct {
	path     string
	debounce time.Duration
	onResult func(string, error)
	log      *zap.SugaredLogger
	fsw      *fsnotify.Watcher

	mu        sync.Mutex
	reloaders []Reloader
	timer     *time.Timer
	ctx       context.Context
	cancel    context.CancelFunc
	started   bool
	done      chan struct{}
	inflight  sync.WaitGroup
}

// New watches path. The file's directory must exist; the file itself may
// appear later.
func New(path string, log *zap.SugaredLogger, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve %s", path)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "create fsnotify watcher")
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, errors.Wrapf(err, "watch directory of %s", abs)
	}

	w := &Watcher{
		path:     abs,
		debounce: DefaultDebounce,
		log:      logger.AddWatchSymbol(logger.OrNop(log)).With(logger.FieldPath, abs),
		fsw:      fsw,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// OnChange registers r to be reloaded when the file changes.
func (w *Watcher) OnChange(r Reloader) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.reloaders = append(w.reloaders, r)
}

// Start begins watching. Reloads run with a context derived from ctx;
// cancelling ctx stops the watcher as Stop does.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return errors.Newf("watcher for %s already started", w.path)
	}
	w.started = true
	w.ctx, w.cancel = context.WithCancel(ctx)

	go w.loop()
	go func() {
		<-w.ctx.Done()
		w.fsw.Close()
	}()
	w.log.Infow("watching for changes")
	return nil
}

// Stop ends watching and waits for an in-flight reload to finish.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.started {
		w.mu.Unlock()
		return w.fsw.Close()
	}
	w.cancel()
	if w.timer != nil && w.timer.Stop() {
		w.inflight.Done()
	}
	w.mu.Unlock()

	<-w.done
	w.inflight.Wait()
	return nil
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.log.Debugw("change detected", "op", event.Op.String())
			w.schedule()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warnw("watcher error", logger.FieldError, err)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

// schedule restarts the debounce timer.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.ctx.Err() != nil {
		return
	}
	if w.timer != nil && w.timer.Stop() {
		w.inflight.Done()
	}
	w.inflight.Add(1)
	w.timer = time.AfterFunc(w.debounce, func() {
		defer w.inflight.Done()
		w.reload()
	})
}

func (w *Watcher) reload() {
	w.mu.Lock()
	ctx := w.ctx
	reloaders := make([]Reloader, len(w.reloaders))
	copy(reloaders, w.reloaders)
	w.mu.Unlock()

	if ctx.Err() != nil {
		return
	}

	var errs error
	for _, r := range reloaders {
		// one failing store does not stop the others
		if err := r.Reload(ctx); err != nil {
			w.log.Errorw("reload failed", logger.FieldError, err)
			errs = errors.Combine(errs, err)
		}
	}
	if errs == nil {
		w.log.Infow("reloaded", logger.FieldCount, len(reloaders))
	}
	if w.onResult != nil {
		w.onResult(w.path, errs)
	}
}
