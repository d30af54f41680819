// File path: internal/watch/watch.go
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nicodishanthj/flowlang/internal/common"
)

// Handler receives one debounced batch of changed flow files.
type Handler func(paths []string)

type Options struct {
	// Debounce is how long to wait for further events before a batch
	// is delivered. Default 300ms.
	Debounce time.Duration
	// Extensions filters which files trigger the handler. Default
	// [".json"].
	Extensions []string
}

// Watcher delivers debounced change batches for flow documents under
// a root path. The handler runs on a single goroutine.
type Watcher struct {
	root     string
	onlyFile string
	notifier *fsnotify.Watcher
	handler  Handler
	debounce time.Duration
	exts     map[string]bool

	changes  chan string
	done     chan struct{}
	stopOnce sync.Once
}

// New prepares a watcher for the given file or directory. Call Start
// to begin watching.
func New(root string, handler Handler, opts *Options) (*Watcher, error) {
	if handler == nil {
		return nil, fmt.Errorf("watch handler required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve watch root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat watch root: %w", err)
	}

	debounce := 300 * time.Millisecond
	extensions := []string{".json"}
	if opts != nil {
		if opts.Debounce > 0 {
			debounce = opts.Debounce
		}
		if len(opts.Extensions) > 0 {
			extensions = opts.Extensions
		}
	}
	exts := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		exts[strings.ToLower(ext)] = true
	}

	notifier, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		root:     abs,
		notifier: notifier,
		handler:  handler,
		debounce: debounce,
		exts:     exts,
		changes:  make(chan string, 256),
		done:     make(chan struct{}),
	}
	if !info.IsDir() {
		w.onlyFile = abs
		w.root = filepath.Dir(abs)
	}
	return w, nil
}

// Start begins watching. Both goroutines exit when Stop is called or
// the context is canceled.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addRecursive(w.root); err != nil {
		w.notifier.Close()
		return fmt.Errorf("watch %s: %w", w.root, err)
	}
	common.Logger().Info("watch: started", "root", w.root, "debounce", w.debounce)
	go w.processEvents(ctx)
	go w.debounceLoop(ctx)
	return nil
}

// Stop ends watching. Safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.notifier.Close()
	})
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if name := d.Name(); name != "." && strings.HasPrefix(name, ".") && path != root {
			return filepath.SkipDir
		}
		return w.notifier.Add(path)
	})
}

func (w *Watcher) wants(path string) bool {
	if w.onlyFile != "" {
		return path == w.onlyFile
	}
	return w.exts[strings.ToLower(filepath.Ext(path))]
}

func (w *Watcher) processEvents(ctx context.Context) {
	logger := common.Logger()
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.notifier.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = w.notifier.Add(event.Name)
					continue
				}
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !w.wants(event.Name) {
				continue
			}
			select {
			case w.changes <- event.Name:
			default:
				logger.Warn("watch: change buffer full, dropping event", "path", event.Name)
			}
		case err, ok := <-w.notifier.Errors:
			if !ok {
				return
			}
			logger.Warn("watch: notifier error", "error", err)
		}
	}
}

func (w *Watcher) debounceLoop(ctx context.Context) {
	var batch []string
	seen := make(map[string]bool)
	var timer *time.Timer
	var timerC <-chan time.Time

	flush := func() {
		if len(batch) > 0 {
			paths := make([]string, len(batch))
			copy(paths, batch)
			w.handler(paths)
			batch = batch[:0]
			for path := range seen {
				delete(seen, path)
			}
		}
		if timer != nil {
			timer.Stop()
			timer = nil
			timerC = nil
		}
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			return
		case <-w.done:
			flush()
			return
		case path := <-w.changes:
			if !seen[path] {
				seen[path] = true
				batch = append(batch, path)
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}
		case <-timerC:
			flush()
		}
	}
}
