package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/n0roo/navkit/internal/logger"
)

// FileWatcher calls a reload callback when a single file changes.
// The parent directory is watched so editors that replace the file are seen.
type FileWatcher struct {
	path      string
	onChange  func()
	debouncer *Debouncer
}

// New creates a watcher for path. onChange runs on a timer goroutine.
func New(path string, debounce time.Duration, onChange func()) *FileWatcher {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return &FileWatcher{
		path:      filepath.Clean(abs),
		onChange:  onChange,
		debouncer: NewDebouncer(debounce),
	}
}

// Path returns the watched file
func (w *FileWatcher) Path() string {
	return w.path
}

// Run watches until ctx is done
func (w *FileWatcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("파일 감시 생성 실패: %w", err)
	}
	defer fw.Close()

	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("디렉토리 감시 실패 %s: %w", dir, err)
	}

	log := logger.FromContext(ctx)
	log.Info("메뉴 파일 감시 시작", zap.String("path", w.path))
	defer w.debouncer.Cancel()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			log.Debug("메뉴 파일 변경 감지",
				zap.String("path", event.Name),
				zap.String("op", event.Op.String()),
			)
			w.debouncer.Trigger(w.onChange)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Warn("파일 감시 오류", zap.Error(err))
		}
	}
}

func (w *FileWatcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove)
}
