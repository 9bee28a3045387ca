//go:build linux

package watch

import (
	"errors"
	"fmt"
	"os"
	"reroute/internal/logger"
	"reroute/internal/model"
	"strings"
	"time"
	"unsafe"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

const watchMask = unix.IN_CREATE | unix.IN_MOVED_FROM | unix.IN_MOVED_TO | unix.IN_ONLYDIR

// One event with the longest possible name must fit in a single read.
const minBufferSize = unix.SizeofInotifyEvent + unix.NAME_MAX + 1

// Inotify reads raw inotify records for a single directory.
type Inotify struct {
	file *os.File
	buf  []byte
}

func NewInotify(dir string, bufferSize int) (*Inotify, error) {
	fd, err := unix.InotifyInit1(unix.IN_CLOEXEC | unix.IN_NONBLOCK)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize inotify: %w", err)
	}

	if _, err := unix.InotifyAddWatch(fd, dir, watchMask); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	if bufferSize < minBufferSize {
		bufferSize = minBufferSize
	}

	logger.Log.Debug("watching directory",
		zap.String("backend", BackendInotify),
		zap.String("path", dir))

	// A non-blocking fd wrapped in os.File goes through the runtime poller,
	// so Close wakes a blocked Read.
	return &Inotify{
		file: os.NewFile(uintptr(fd), "inotify"),
		buf:  make([]byte, bufferSize),
	}, nil
}

func (w *Inotify) Read() ([]model.Event, error) {
	for {
		n, err := w.file.Read(w.buf)
		if err != nil {
			if errors.Is(err, os.ErrClosed) {
				return nil, ErrClosed
			}
			return nil, err
		}

		if n < unix.SizeofInotifyEvent {
			return nil, fmt.Errorf("short inotify read: %d bytes", n)
		}

		if events := parseEvents(w.buf[:n], time.Now()); len(events) > 0 {
			return events, nil
		}
	}
}

func (w *Inotify) Close() error {
	return w.file.Close()
}

func parseEvents(buf []byte, now time.Time) []model.Event {
	var events []model.Event

	for offset := 0; offset+unix.SizeofInotifyEvent <= len(buf); {
		raw := (*unix.InotifyEvent)(unsafe.Pointer(&buf[offset]))
		nameLen := int(raw.Len)
		start := offset + unix.SizeofInotifyEvent
		if start+nameLen > len(buf) {
			break
		}

		name := strings.TrimRight(string(buf[start:start+nameLen]), "\x00")
		offset = start + nameLen

		if raw.Mask&unix.IN_Q_OVERFLOW != 0 {
			logger.Log.Warn("inotify queue overflow, events were lost")
			continue
		}
		if raw.Mask&unix.IN_IGNORED != 0 {
			continue
		}

		events = append(events, fromMask(raw.Mask, name, raw.Cookie, now))
	}

	return events
}

func fromMask(mask uint32, name string, cookie uint32, now time.Time) model.Event {
	event := model.Event{
		Kind:      model.EventOther,
		Name:      name,
		Cookie:    cookie,
		IsDir:     mask&unix.IN_ISDIR != 0,
		Timestamp: now,
	}

	switch {
	case mask&unix.IN_CREATE != 0:
		event.Kind = model.EventFileCreated
		if event.IsDir {
			event.Kind = model.EventDirCreated
		}
	case mask&unix.IN_MOVED_FROM != 0:
		event.Kind = model.EventMoveAway
	case mask&unix.IN_MOVED_TO != 0:
		event.Kind = model.EventMoveInto
	}

	return event
}
