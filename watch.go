package main

import (
	"context"
	"log"
	"path/filepath"

	"braces.dev/errtrace"
	"github.com/fsnotify/fsnotify"
	"go.abhg.dev/qa2html/internal/errdefer"
)

// Watcher converts input documents again when they change.
type Watcher struct {
	Log       *log.Logger
	Generator *Generator
}

// Watch blocks until ctx is canceled,
// converting each of the given inputs whenever it's written to.
//
// Conversion errors are logged but do not stop the watch
// so that a broken document can be fixed in place.
func (w *Watcher) Watch(ctx context.Context, inputs []string) (err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errtrace.Wrap(err)
	}
	defer errdefer.Close(&err, watcher)

	// Editors often replace files instead of writing to them,
	// which drops watches on the file itself.
	// Watch the parent directories instead.
	watched := make(map[string]string) // absolute path => input
	dirs := make(map[string]struct{})
	for _, input := range inputs {
		abs, err := filepath.Abs(input)
		if err != nil {
			return errtrace.Wrap(err)
		}
		watched[abs] = input

		dir := filepath.Dir(abs)
		if _, ok := dirs[dir]; ok {
			continue
		}
		dirs[dir] = struct{}{}
		if err := watcher.Add(dir); err != nil {
			return errtrace.Wrap(err)
		}
	}
	w.Log.Printf("Watching %d files for changes", len(watched))

	for {
		select {
		case <-ctx.Done():
			return nil

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.Log.Printf("watch: %v", err)

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if input, ok := watched[filepath.Clean(ev.Name)]; ok {
				w.rebuild(input)
			}
		}
	}
}

func (w *Watcher) rebuild(input string) {
	if _, err := w.Generator.Convert(input); err != nil {
		w.Log.Printf("qa2html: %v", err)
		return
	}
	if w.Generator.NoIndex {
		return
	}
	if err := w.Generator.GenerateIndex(); err != nil {
		w.Log.Printf("qa2html: %v", err)
	}
}
