package main

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/funvibe/callinfer/internal/logging"
)

// watch re-runs a scenario whenever its file is written or replaced, until
// ctx is done.
func (r *runner) watch(ctx context.Context, files []string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	tracked := map[string]bool{}
	dirs := map[string]bool{}
	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return err
		}
		tracked[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := w.Add(dir); err != nil {
			return err
		}
		dirs[dir] = true
	}
	logging.LogInfo("watch", "waiting for changes, interrupt to stop")

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			path, err := filepath.Abs(ev.Name)
			if err != nil || !tracked[path] {
				continue
			}
			logging.LogInfo("watch", path+" changed")
			r.runFile(ctx, path)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logging.LogError("Watch Error", err)
		}
	}
}
