// Package watch re-runs work when input files change.
//
// Editors often save by writing a temp file and renaming it over the
// original, which drops a watch on the file itself. The watcher therefore
// watches the parent directories and filters events by file name.
package watch

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before a change is reported.
const DefaultDebounce = 300 * time.Millisecond

// Options configures a Watcher.
type Options struct {
	// Debounce is the quiet period. Defaults to DefaultDebounce.
	Debounce time.Duration

	// MaxWait bounds how long a stream of changes can delay an event.
	MaxWait time.Duration

	Logger *log.Logger
}

// Watcher reports debounced changes to a set of files.
type Watcher struct {
	fs     *fsnotify.Watcher
	files  map[string]bool
	deb    *Debouncer
	logger *log.Logger
}

// New watches the given files. The files' directories must exist.
func New(paths []string, opts Options) (*Watcher, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		fs:     fw,
		files:  make(map[string]bool, len(paths)),
		deb:    NewDebouncer(opts.Debounce, opts.MaxWait),
		logger: opts.Logger,
	}
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fw.Close()
			return nil, err
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
		w.logger.Debug("watching directory", "path", dir)
	}
	return w, nil
}

// Run calls fn for every debounced change until ctx is done.
// An error from fn is logged and does not stop the watcher.
func (w *Watcher) Run(ctx context.Context, fn func(context.Context, Event) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	paths := make(chan string, 16)
	events := w.deb.Run(ctx, paths)

	go func() {
		defer close(paths)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.fs.Events:
				if !ok {
					return
				}
				if !w.relevant(ev) {
					continue
				}
				select {
				case paths <- filepath.Clean(ev.Name):
				case <-ctx.Done():
					return
				}
			case err, ok := <-w.fs.Errors:
				if !ok {
					return
				}
				w.logger.Warn("watch error", "error", err)
			}
		}
	}()

	for ev := range events {
		if ctx.Err() != nil {
			break
		}
		w.logger.Debug("change detected", "paths", ev.Paths)
		if err := fn(ctx, ev); err != nil {
			w.logger.Error("rebuild failed", "error", err)
		}
	}
	return ctx.Err()
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(ev.Name)
	return err == nil && w.files[abs]
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fs.Close()
}
