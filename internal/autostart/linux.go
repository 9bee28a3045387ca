package autostart

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"reroute/internal/util"
	"strconv"
	"strings"
	"text/template"
)

const serviceName = "reroute.service"

const serviceTemplate = `[Unit]
Description=Reroute new files into a working directory

[Service]
ExecStart={{.ExecStart}}
Restart=on-failure
RestartSec=5

[Install]
WantedBy=default.target
`

var serviceTmpl = template.Must(template.New("service").Parse(serviceTemplate))

type LinuxAutoStarter struct {
	// Dir overrides ~/.config/systemd/user.
	Dir string
}

// renderUnit quotes every word of the command line so paths with spaces
// survive systemd's own splitting, and doubles % so paths are not read as
// unit specifiers.
func renderUnit(execPath string, args []string) ([]byte, error) {
	words := make([]string, 0, len(args)+1)
	for _, w := range append([]string{execPath}, args...) {
		words = append(words, strconv.Quote(strings.ReplaceAll(w, "%", "%%")))
	}

	var buf bytes.Buffer
	if err := serviceTmpl.Execute(&buf, map[string]string{"ExecStart": strings.Join(words, " ")}); err != nil {
		return nil, fmt.Errorf("failed to render service file: %w", err)
	}
	return buf.Bytes(), nil
}

func (l *LinuxAutoStarter) servicePath() (string, error) {
	dir := l.Dir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".config", "systemd", "user")
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	return filepath.Join(dir, serviceName), nil
}

func (l *LinuxAutoStarter) Install(execPath string, args []string) error {
	path, err := l.servicePath()
	if err != nil {
		return err
	}

	unit, err := renderUnit(execPath, args)
	if err != nil {
		return err
	}

	if err := util.AtomicWrite(path, bytes.NewReader(unit)); err != nil {
		return fmt.Errorf("failed to write service file: %w", err)
	}

	return systemctl(
		[]string{"daemon-reload"},
		[]string{"enable", serviceName},
		[]string{"restart", serviceName},
	)
}

func (l *LinuxAutoStarter) Uninstall() error {
	for _, args := range [][]string{{"stop", serviceName}, {"disable", serviceName}} {
		_ = exec.Command("systemctl", append([]string{"--user"}, args...)...).Run()
	}

	path, err := l.servicePath()
	if err != nil {
		return err
	}

	if err := util.RemoveIfExists(path); err != nil {
		return err
	}

	return systemctl([]string{"daemon-reload"})
}

func (l *LinuxAutoStarter) IsInstalled() (bool, error) {
	path, err := l.servicePath()
	if err != nil {
		return false, err
	}

	_, err = os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

func systemctl(calls ...[]string) error {
	for _, args := range calls {
		full := append([]string{"--user"}, args...)
		if out, err := exec.Command("systemctl", full...).CombinedOutput(); err != nil {
			return fmt.Errorf("failed to run systemctl %v: %w\n%s", args, err, out)
		}
	}
	return nil
}
