package content

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settle is how long the file has to stay quiet before it is reloaded.
// Editors usually write a file in several steps.
const settle = 200 * time.Millisecond

// Watch reloads the content file whenever it changes and hands every version that
// parses to apply. A broken edit is logged and the previous content stays live.
// Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, apply func(*Content)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating content watcher: %w", err)
	}
	defer watcher.Close()

	path = filepath.Clean(path)
	// Watch the directory: editors replace the file through a rename, which
	// drops a watch set on the file itself.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}
	log.Printf("watching %s for content changes", path)

	var (
		timer  *time.Timer
		reload <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(settle)
			} else {
				timer.Reset(settle)
			}
			reload = timer.C

		case <-reload:
			reload = nil
			c, err := Load(path)
			if err != nil {
				log.Printf("content reload: %v", err)
				continue
			}
			apply(c)
			log.Printf("content reloaded from %s", path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("content watcher: %v", err)
		}
	}
}
