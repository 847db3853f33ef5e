package deps

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/sys/unix"

	"upkeep/internal/config"
)

// Requirement defines an external dependency upkeep relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements returns the external binaries the configured checks need.
func Requirements(cfg *config.Config) []Requirement {
	var reqs []Requirement
	if cfg == nil {
		return reqs
	}
	if cfg.Units.Enabled {
		reqs = append(reqs, Requirement{
			Name:        "systemctl",
			Command:     cfg.SystemctlBinary(),
			Description: "failed unit query",
		})
	}
	if cfg.Journal.Enabled {
		reqs = append(reqs, Requirement{
			Name:        "journalctl",
			Command:     cfg.JournalctlBinary(),
			Description: "boot journal query",
		})
	}
	if cfg.Updates.Enabled {
		switch cfg.Updates.Backend {
		case "checkupdates":
			reqs = append(reqs, Requirement{Name: "checkupdates", Command: "checkupdates", Description: "pending upgrade query"})
		case "apt":
			reqs = append(reqs, Requirement{Name: "apt", Command: "apt", Description: "pending upgrade query"})
		case "auto":
			reqs = append(reqs,
				Requirement{Name: "checkupdates", Command: "checkupdates", Description: "pending upgrade query (preferred)", Optional: true},
				Requirement{Name: "apt", Command: "apt", Description: "pending upgrade query (fallback)", Optional: true},
			)
		}
	}
	if cfg.Notify.Enabled && cfg.Notify.FallbackNotifySend {
		reqs = append(reqs, Requirement{
			Name:        "notify-send",
			Command:     "notify-send",
			Description: "notification fallback",
			Optional:    true,
		})
	}
	if cfg.Notify.Enabled && cfg.Notify.Actions && cfg.Notify.TerminalCommand != "" {
		reqs = append(reqs, Requirement{
			Name:        "terminal",
			Command:     cfg.Notify.TerminalCommand,
			Description: "investigation terminal",
			Optional:    true,
		})
	}
	return reqs
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Available = false
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Available = false
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// CheckStateDir verifies the state directory exists and is writable.
func CheckStateDir(path string) Status {
	status := Status{Name: "state dir", Command: path, Description: "run state directory"}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Created on the next run; report as available but note it.
			status.Available = true
			status.Detail = "will be created"
			return status
		}
		status.Detail = fmt.Sprintf("stat: %v", err)
		return status
	}
	if !info.IsDir() {
		status.Detail = "not a directory"
		return status
	}
	if err := unix.Access(path, unix.W_OK); err != nil {
		status.Detail = fmt.Sprintf("not writable: %v", err)
		return status
	}
	status.Available = true
	return status
}
