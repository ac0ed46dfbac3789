//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/mitchellh/go-ps"
)

// Process is a running process matched by executable name.
type Process struct {
	// PID is the process identifier.
	PID int
	// Executable is the executable name reported by the OS.
	Executable string
}

// processLister returns the current process table.
type processLister func() ([]ps.Process, error)

// RunningProcesses returns processes, other than the current one, whose executable matches one of names.
// Names are compared case-insensitively.
func RunningProcesses(names ...string) ([]Process, error) {
	return runningProcesses(ps.Processes, names...)
}

func runningProcesses(list processLister, names ...string) ([]Process, error) {
	if len(names) == 0 {
		return nil, nil
	}

	processList, err := list()
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}

	wanted := make([]string, 0, len(names))
	for _, name := range names {
		wanted = append(wanted, strings.ToLower(name))
	}

	thisProcessID := os.Getpid()

	var matches []Process

	for _, process := range processList {
		if process.Pid() == thisProcessID {
			continue
		}

		if !slices.Contains(wanted, strings.ToLower(process.Executable())) {
			continue
		}

		matches = append(matches, Process{
			PID:        process.Pid(),
			Executable: process.Executable(),
		})
	}

	return matches, nil
}
