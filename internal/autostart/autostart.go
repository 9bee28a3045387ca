package autostart

import (
	"errors"
	"runtime"
)

var ErrUnsupported = errors.New("autostart is not supported on " + runtime.GOOS)

// AutoStarter registers reroute to start at login. args are passed to the
// executable verbatim, typically the resolved destination and source.
type AutoStarter interface {
	Install(execPath string, args []string) error
	Uninstall() error
	IsInstalled() (bool, error)
}

func New() AutoStarter {
	switch runtime.GOOS {
	case "windows":
		return &WindowsAutoStarter{}
	case "linux":
		return &LinuxAutoStarter{}
	default:
		return &UnsupportedAutoStarter{}
	}
}

type UnsupportedAutoStarter struct{}

func (u *UnsupportedAutoStarter) Install(_ string, _ []string) error {
	return ErrUnsupported
}

func (u *UnsupportedAutoStarter) Uninstall() error {
	return ErrUnsupported
}

func (u *UnsupportedAutoStarter) IsInstalled() (bool, error) {
	return false, nil
}
