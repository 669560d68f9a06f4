// Package watch implements fsnotify-driven intake: .docx files dropped
// into a folder are analyzed automatically.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/redmark-labs/redmark-cli/internal/core/domain"
	"github.com/redmark-labs/redmark-cli/internal/core/ports/driving"
	"github.com/redmark-labs/redmark-cli/internal/logger"
)

// DefaultDebounce is how long a file must stay quiet before analysis
// starts. Editors and copies produce bursts of write events; waiting
// also gives slow writers time to finish the zip container.
const DefaultDebounce = 500 * time.Millisecond

// Handler receives the outcome of each analyzed file. The result is
// nil when the document could not be read.
type Handler func(path string, result *domain.AnalysisResult, err error)

// Watcher monitors one intake folder for new or modified .docx files
// and runs each through the analysis pipeline. Subdirectories are not
// watched.
type Watcher struct {
	analysis driving.AnalysisService
	dir      string
	opts     domain.AnalyzeOptions
	debounce time.Duration
	handler  Handler

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// New creates a watcher over dir. The handler is optional; without one
// outcomes are only logged. A debounce of zero selects the default.
func New(analysis driving.AnalysisService, dir string, opts domain.AnalyzeOptions, debounce time.Duration, handler Handler) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		analysis: analysis,
		dir:      dir,
		opts:     opts,
		debounce: debounce,
		handler:  handler,
		timers:   make(map[string]*time.Timer),
	}
}

// Run watches the folder until the context is cancelled. Events for
// the same file within the debounce window collapse into one analysis.
func (w *Watcher) Run(ctx context.Context) error {
	info, err := os.Stat(w.dir)
	if err != nil {
		return fmt.Errorf("watch folder: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch folder %s is not a directory: %w", w.dir, domain.ErrInvalidInput)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close() //nolint:errcheck // Close error on shutdown is not actionable

	if err := watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	logger.Info("Watching %s for .docx documents", w.dir)

	for {
		select {
		case <-ctx.Done():
			w.stopTimers()
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if w.wantsEvent(event) {
				w.schedule(ctx, event.Name)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watch error: %v", err)
		}
	}
}

// wantsEvent filters for create and write events on .docx files,
// skipping hidden files and Office owner files ("~$...").
func (w *Watcher) wantsEvent(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
		return false
	}
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") || strings.HasPrefix(base, "~$") {
		return false
	}
	return strings.EqualFold(filepath.Ext(base), ".docx")
}

// schedule arms (or re-arms) the per-file debounce timer.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.timers[path]; ok {
		timer.Reset(w.debounce)
		return
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()

		if ctx.Err() != nil {
			return
		}
		w.analyze(ctx, path)
	})
}

func (w *Watcher) analyze(ctx context.Context, path string) {
	logger.Info("Analyzing %s", filepath.Base(path))
	result, err := w.analysis.AnalyzeBatch(ctx, []string{path}, w.opts)
	if err != nil {
		logger.Warn("Analysis of %s failed: %v", filepath.Base(path), err)
	}
	if w.handler != nil {
		w.handler(path, result, err)
	}
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, timer := range w.timers {
		timer.Stop()
		delete(w.timers, path)
	}
}
