package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"reroute/internal/logger"
	"reroute/internal/model"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Notify is the fsnotify-backed Source.
type Notify struct {
	fw  *fsnotify.Watcher
	dir string
}

func NewNotify(dir string, bufferSize int) (*Notify, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	info, err := os.Stat(absDir)
	if err != nil {
		return nil, fmt.Errorf("source directory not found: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source is not a directory: %s", absDir)
	}

	fw, err := fsnotify.NewBufferedWatcher(uint(bufferSize))
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := fw.Add(absDir); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", absDir, err)
	}

	logger.Log.Debug("watching directory",
		zap.String("backend", BackendFsnotify),
		zap.String("path", absDir))

	return &Notify{fw: fw, dir: absDir}, nil
}

func (n *Notify) Read() ([]model.Event, error) {
	var batch []model.Event

	for len(batch) == 0 {
		select {
		case fsEvent, ok := <-n.fw.Events:
			if !ok {
				return nil, ErrClosed
			}
			batch = append(batch, n.toEvent(fsEvent))

		case err, ok := <-n.fw.Errors:
			if !ok {
				return nil, ErrClosed
			}

			logger.Log.Warn("watcher error",
				zap.Error(err))
		}
	}

	for {
		select {
		case fsEvent, ok := <-n.fw.Events:
			if !ok {
				return batch, nil
			}
			batch = append(batch, n.toEvent(fsEvent))
		default:
			return batch, nil
		}
	}
}

func (n *Notify) Close() error {
	return n.fw.Close()
}

func (n *Notify) toEvent(fsEvent fsnotify.Event) model.Event {
	event := model.Event{
		Kind:      model.EventOther,
		Name:      filepath.Base(fsEvent.Name),
		Timestamp: time.Now(),
	}

	switch {
	case fsEvent.Op.Has(fsnotify.Create):
		event.Kind = model.EventFileCreated
		if info, err := os.Lstat(fsEvent.Name); err == nil && info.IsDir() {
			event.Kind = model.EventDirCreated
			event.IsDir = true
		}
	case fsEvent.Op.Has(fsnotify.Rename):
		event.Kind = model.EventMoveAway
	}

	return event
}
