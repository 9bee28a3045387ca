// Package watch turns OS notifications for a single directory into batches
// of model.Event values.
//
// Two backends exist. The inotify backend (Linux only) reports MOVED_FROM and
// MOVED_TO separately with their cookie and flags directories, which is what
// move correlation needs. The fsnotify backend is portable but delivers a
// move into the directory as a plain create, so it never yields
// model.EventMoveInto.
package watch

import (
	"errors"
	"fmt"

	"reroute/internal/model"
)

const (
	BackendInotify  = "inotify"
	BackendFsnotify = "fsnotify"
)

// ErrClosed is returned by Read once the source has been closed.
var ErrClosed = errors.New("watch source closed")

// Source is a blocking stream of notification batches for one directory.
// Read blocks until at least one event is available. Close unblocks a
// pending Read.
type Source interface {
	Read() ([]model.Event, error)
	Close() error
}

func Open(backend, dir string, bufferSize int) (Source, error) {
	switch backend {
	case BackendInotify:
		w, err := NewInotify(dir, bufferSize)
		if err != nil {
			return nil, err
		}
		return w, nil
	case BackendFsnotify, "":
		n, err := NewNotify(dir, bufferSize)
		if err != nil {
			return nil, err
		}
		return n, nil
	default:
		return nil, fmt.Errorf("unsupported watch backend: %s", backend)
	}
}
