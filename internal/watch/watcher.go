package watch

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before a change is reported.
const DefaultDebounce = 200 * time.Millisecond

// Change is a settled change of the watched file.
type Change struct {
	Path string

	// Removed is set when the file no longer exists.
	Removed bool
}

// Watcher reports changes of a single file.
//
// The parent directory is watched instead of the file itself so that
// editors and atomic writes that replace the file are seen too. Bursts of
// events are collapsed into one Change after the debounce period.
type Watcher struct {
	Path     string
	Debounce time.Duration
	Changes  <-chan Change // Read-only external channel

	changes  chan Change // Internal write channel
	done     chan struct{}
	stop     chan struct{}
	stopOnce sync.Once
	watcher  *fsnotify.Watcher
}

// NewWatcher creates a watcher for path.
func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ch := make(chan Change, 4)
	return &Watcher{
		Path:     abs,
		Debounce: DefaultDebounce,
		Changes:  ch,
		changes:  ch,
		done:     make(chan struct{}),
		stop:     make(chan struct{}),
		watcher:  fw,
	}, nil
}

// Start begins watching. The parent directory must exist.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.Path)); err != nil {
		return err
	}

	go w.loop()
	return nil
}

// Stop closes the watcher and the Changes channel.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stop)
		w.watcher.Close()
		<-w.done // Wait for loop to exit
		close(w.changes)
	})
}

func (w *Watcher) loop() {
	defer close(w.done)

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	var (
		pending bool
		last    time.Time
	)
	ticker := time.NewTicker(debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-w.stop:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.Path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				pending = true
				last = time.Now()
			}

		case <-ticker.C:
			if pending && time.Since(last) >= debounce {
				pending = false
				if !w.emit() {
					return
				}
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal; the next event retries.
		}
	}
}

// emit sends the current state of the file. It reports false when the
// watcher is stopping.
func (w *Watcher) emit() bool {
	_, err := os.Stat(w.Path)
	change := Change{Path: w.Path, Removed: os.IsNotExist(err)}

	select {
	case w.changes <- change:
		return true
	case <-w.stop:
		return false
	}
}
