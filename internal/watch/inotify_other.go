//go:build !linux

package watch

import (
	"errors"

	"reroute/internal/model"
)

var ErrInotifyUnsupported = errors.New("inotify backend is only available on linux")

type Inotify struct{}

func NewInotify(string, int) (*Inotify, error) {
	return nil, ErrInotifyUnsupported
}

func (*Inotify) Read() ([]model.Event, error) {
	return nil, ErrInotifyUnsupported
}

func (*Inotify) Close() error {
	return nil
}
