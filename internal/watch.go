package internal

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	tt "github.com/gnolang/sift/internal/types"
)

// settleDelay lets an editor finish writing before the file is read.
const settleDelay = 100 * time.Millisecond

// ReportFunc receives the issues of a file linted by the watcher.
type ReportFunc func(filename string, issues []tt.Issue)

// Watcher re-lints source files as they are written.
type Watcher struct {
	engine     *Engine
	logger     *zap.Logger
	watcher    *fsnotify.Watcher
	watchDirs  []string
	accept     func(path string) bool
	report     ReportFunc
	isWatching bool
}

// NewWatcher watches dirs recursively. Only files accepted by accept are
// linted; their issues go to report.
func NewWatcher(engine *Engine, logger *zap.Logger, dirs []string, accept func(string) bool, report ReportFunc) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("error creating watcher: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		engine:    engine,
		logger:    logger,
		watcher:   fw,
		watchDirs: dirs,
		accept:    accept,
		report:    report,
	}, nil
}

// Start registers every directory below the watched roots.
func (w *Watcher) Start() error {
	if w.isWatching {
		return errors.New("already watching")
	}

	for _, dir := range w.watchDirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return w.watcher.Add(path)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("error adding directory to watcher: %w", err)
		}
	}

	w.isWatching = true
	return nil
}

// Run handles file events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.isWatching {
		if err := w.Start(); err != nil {
			return err
		}
	}
	defer w.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleFileEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watch error", zap.Error(err))
		}
	}
}

// Stop releases the underlying watcher.
func (w *Watcher) Stop() error {
	if !w.isWatching {
		return nil
	}
	w.isWatching = false
	return w.watcher.Close()
}

func (w *Watcher) handleFileEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 || !w.accept(event.Name) {
		return
	}

	// wait for a while after file change to consider multiple changes as one
	time.Sleep(settleDelay)
	issues, err := w.engine.Run(event.Name)
	if err != nil {
		w.logger.Error("error linting file", zap.String("file", event.Name), zap.Error(err))
		return
	}
	w.logger.Debug("file changed", zap.String("file", event.Name), zap.Int("issues", len(issues)))
	w.report(event.Name, issues)
}
