// Package watcher reports files added to the sound directory.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Watcher calls OnCreate with the base name of every regular file created
// in (or moved into) a directory.
type Watcher struct {
	dir      string
	onCreate func(fileName string)
	ready    chan struct{}
}

// New returns a watcher for dir. Nothing is watched until Run.
func New(dir string, onCreate func(fileName string)) *Watcher {
	return &Watcher{dir: dir, onCreate: onCreate, ready: make(chan struct{})}
}

// Ready is closed once the directory is being watched.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Run watches until ctx ends. It fits jobmgr.Manager.StartAsync.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	close(w.ready)
	log.Info().Str("dir", w.dir).Msg("[Watcher] Watching sound directory")

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handle(ev)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Str("dir", w.dir).Msg("[Watcher] Watch error")
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if !ev.Has(fsnotify.Create) {
		return
	}
	name := filepath.Base(ev.Name)
	if skip(name) {
		return
	}
	info, err := os.Stat(ev.Name)
	if err != nil || info.IsDir() {
		return
	}

	log.Info().Str("file", name).Msg("[Watcher] New sound file")
	w.onCreate(name)
}

// skip filters hidden and editor/partial-download files.
func skip(name string) bool {
	return strings.HasPrefix(name, ".") ||
		strings.HasSuffix(name, "~") ||
		strings.HasSuffix(name, ".part") ||
		strings.HasSuffix(name, ".tmp")
}
