package supplier

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = 250 * time.Millisecond

// Watcher calls OnChange whenever the file at Path is written, created, or
// renamed into place. Bursts of events (editors often write a temp file and
// rename it) are collapsed into a single call after the debounce interval.
type Watcher struct {
	path     string
	onChange func(context.Context)
	debounce time.Duration
	logger   *zap.Logger

	mtx     sync.Mutex
	watcher *fsnotify.Watcher
	doneCh  chan struct{}
}

// WatcherInit is used to instantiate a Watcher via NewWatcher.
type WatcherInit struct {
	Path     string
	OnChange func(context.Context)
	// Debounce defaults to 250ms.
	Debounce time.Duration
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
}

// NewWatcher creates a Watcher. Nothing is watched until Start is called.
func NewWatcher(init WatcherInit) (*Watcher, error) {
	if init.Path == "" {
		return nil, errors.New("watcher needs a path")
	}
	if init.OnChange == nil {
		return nil, errors.New("watcher needs an OnChange callback")
	}

	w := &Watcher{
		path:     filepath.Clean(init.Path),
		onChange: init.OnChange,
		debounce: init.Debounce,
		logger:   init.Logger,
	}
	if w.debounce <= 0 {
		w.debounce = defaultDebounce
	}
	if w.logger == nil {
		w.logger = zap.NewNop()
	}
	return w, nil
}

// Start begins watching. It returns once the watch is registered; events are
// processed in the background until ctx is canceled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mtx.Lock()
	defer w.mtx.Unlock()
	if w.watcher != nil {
		return nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	// Watch the directory rather than the file, so the watch survives the file
	// being replaced
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		_ = fsw.Close()
		return err
	}

	w.watcher = fsw
	w.doneCh = make(chan struct{})
	go w.run(ctx, fsw, w.doneCh)

	w.logger.Info("watching name file", zap.String("path", w.path))
	return nil
}

// Stop stops watching and waits for the background goroutine to exit. It is
// safe to call more than once.
func (w *Watcher) Stop() error {
	w.mtx.Lock()
	fsw, done := w.watcher, w.doneCh
	w.watcher, w.doneCh = nil, nil
	w.mtx.Unlock()

	if fsw == nil {
		return nil
	}
	err := fsw.Close()
	<-done
	return err
}

func (w *Watcher) run(ctx context.Context, fsw *fsnotify.Watcher, done chan<- struct{}) {
	defer close(done)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("name file changed", zap.String("path", event.Name), zap.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("name file watcher error", zap.Error(err))

		case <-fire:
			fire = nil
			w.onChange(ctx)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}
