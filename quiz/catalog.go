/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package quiz

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Catalog keeps the most recent board loaded from a source. Sessions copy
// the board once when they are created, so reloads only reach new games.
type Catalog struct {
	src     Source
	onLoad  func(LoadResult)
	onError func(error)

	mu      sync.RWMutex
	current LoadResult
}

// NewCatalog returns a catalog that has not loaded anything yet. onLoad,
// if non-nil, is called after every load attempt. onError, if non-nil,
// receives file watch failures.
func NewCatalog(src Source, onLoad func(LoadResult), onError func(error)) *Catalog {
	return &Catalog{
		src:     src,
		onLoad:  onLoad,
		onError: onError,
		current: LoadResult{Err: ErrBoardUnavailable},
	}
}

func (c *Catalog) watchError(err error) {
	if c.onError != nil {
		c.onError(err)
	}
}

// Reload loads the source again. A failed reload keeps the last good board.
func (c *Catalog) Reload(ctx context.Context) LoadResult {
	result := Load(ctx, c.src)

	c.mu.Lock()
	if result.OK() || !c.current.OK() {
		c.current = result
	}
	c.mu.Unlock()

	if c.onLoad != nil {
		c.onLoad(result)
	}

	return result
}

// Current returns the result new sessions should be built from.
func (c *Catalog) Current() LoadResult {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.current
}

// Watch reloads a file-backed catalog whenever the file changes, until
// ctx is cancelled. It returns immediately for other sources. A watch that
// cannot be set up is reported to onError and leaves the catalog as it
// is; the last load result keeps being served.
func (c *Catalog) Watch(ctx context.Context, debounce time.Duration) {
	fs, ok := c.src.(*FileSource)
	if !ok {
		return
	}

	path, err := filepath.Abs(fs.Path)
	if err != nil {
		c.watchError(fmt.Errorf("watch %s: %w", fs.Path, err))
		return
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		c.watchError(fmt.Errorf("watch %s: %w", path, err))
		return
	}
	defer watcher.Close()

	// Editors often replace files on save, so watch the directory.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		c.watchError(fmt.Errorf("watch %s: %w", path, err))
		return
	}

	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			pending = time.After(debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			c.watchError(fmt.Errorf("watch %s: %w", path, err))
		case <-pending:
			pending = nil
			c.Reload(ctx)
		}
	}
}
