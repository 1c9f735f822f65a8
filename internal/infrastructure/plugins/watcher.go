package plugins

import (
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-hclog"
)

// Watcher reports changes to provider binaries and modules.
// Bursts of file events are collapsed into one notification.
type Watcher struct {
	dirs    []string
	watcher *fsnotify.Watcher
	changes chan string
	logger  hclog.Logger

	debounceDelay time.Duration
	timer         *time.Timer
	lastPath      string
	timerMu       sync.Mutex

	stopCh    chan struct{}
	stoppedCh chan struct{}
	running   bool
	stopped   bool
	runningMu sync.Mutex
}

// NewWatcher creates a watcher for the given directories
func NewWatcher(dirs []string, logger hclog.Logger) *Watcher {
	return &Watcher{
		dirs:          dirs,
		changes:       make(chan string, 1),
		logger:        logger,
		debounceDelay: 250 * time.Millisecond,
		stopCh:        make(chan struct{}),
		stoppedCh:     make(chan struct{}),
	}
}

// Start begins watching. Directories that do not exist yet are created.
// A stopped watcher can be started again; it then delivers on a new
// Changes channel.
func (w *Watcher) Start() error {
	w.runningMu.Lock()
	defer w.runningMu.Unlock()

	if w.running {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	for _, dir := range w.dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			watcher.Close()
			return err
		}
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return err
		}
	}

	if w.stopped {
		w.changes = make(chan string, 1)
		w.stopCh = make(chan struct{})
		w.stoppedCh = make(chan struct{})
		w.stopped = false
	}

	w.watcher = watcher
	w.running = true
	go w.watchLoop(w.watcher, w.stopCh, w.stoppedCh)
	return nil
}

// Stop terminates the watcher and closes the changes channel
func (w *Watcher) Stop() {
	w.runningMu.Lock()
	if !w.running {
		w.runningMu.Unlock()
		return
	}
	w.running = false
	w.stopped = true
	stopCh, stoppedCh, watcher, changes := w.stopCh, w.stoppedCh, w.watcher, w.changes
	w.runningMu.Unlock()

	close(stopCh)
	<-stoppedCh
	watcher.Close()

	w.timerMu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timerMu.Unlock()

	w.runningMu.Lock()
	close(changes)
	w.runningMu.Unlock()
}

// Changes delivers the last changed path of each debounced burst
func (w *Watcher) Changes() <-chan string {
	w.runningMu.Lock()
	defer w.runningMu.Unlock()
	return w.changes
}

func (w *Watcher) watchLoop(watcher *fsnotify.Watcher, stopCh <-chan struct{}, stoppedCh chan<- struct{}) {
	defer close(stoppedCh)

	for {
		select {
		case <-stopCh:
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Chmod) {
				w.schedule(event.Name)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("provider watcher error", "error", err)
		}
	}
}

func (w *Watcher) schedule(path string) {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()

	w.lastPath = path
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounceDelay, w.emit)
}

func (w *Watcher) emit() {
	w.timerMu.Lock()
	path := w.lastPath
	w.timerMu.Unlock()

	w.runningMu.Lock()
	defer w.runningMu.Unlock()
	if !w.running {
		return
	}

	// a pending notification already covers this burst
	select {
	case w.changes <- path:
	default:
	}
}
