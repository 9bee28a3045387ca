package autostart

import (
	"fmt"
	"os/exec"
	"strings"
)

const taskName = "Reroute"

type WindowsAutoStarter struct{}

func taskCommand(execPath string, args []string) string {
	words := make([]string, 0, len(args)+1)
	for _, w := range append([]string{execPath}, args...) {
		words = append(words, `"`+w+`"`)
	}
	return strings.Join(words, " ")
}

func (w *WindowsAutoStarter) Install(execPath string, args []string) error {
	cmd := exec.Command("schtasks", "/create",
		"/TN", taskName,
		"/TR", taskCommand(execPath, args),
		"/SC", "ONLOGON",
		"/F")

	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("failed to register task: %w\n%s", err, out)
	}

	return nil
}

func (w *WindowsAutoStarter) Uninstall() error {
	cmd := exec.Command("schtasks", "/DELETE", "/TN", taskName, "/F")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("failed to remove task: %w\n%s", err, out)
	}

	return nil
}

func (w *WindowsAutoStarter) IsInstalled() (bool, error) {
	if err := exec.Command("schtasks", "/Query", "/TN", taskName).Run(); err != nil {
		return false, nil
	}

	return true, nil
}
