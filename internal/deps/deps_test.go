package deps

import (
	"os"
	"path/filepath"
	"testing"

	"upkeep/internal/config"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[1].Available {
		t.Fatalf("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatalf("expected detail message for missing binary")
	}
}

func TestRequirementsFollowConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Updates.Backend = "apt"
	cfg.Notify.FallbackNotifySend = false
	cfg.Notify.Actions = false

	names := map[string]bool{}
	for _, req := range Requirements(&cfg) {
		names[req.Name] = true
	}
	for _, want := range []string{"systemctl", "journalctl", "apt"} {
		if !names[want] {
			t.Fatalf("expected requirement %q in %v", want, names)
		}
	}
	if names["notify-send"] {
		t.Fatal("notify-send requirement should follow the fallback toggle")
	}
	if names["checkupdates"] {
		t.Fatal("checkupdates should not be required for the apt backend")
	}
}

func TestRequirementsAutoBackendListsBothOptional(t *testing.T) {
	cfg := config.Default()
	count := 0
	for _, req := range Requirements(&cfg) {
		if req.Name == "checkupdates" || req.Name == "apt" {
			count++
			if !req.Optional {
				t.Fatalf("auto backend candidates must be optional: %#v", req)
			}
		}
	}
	if count != 2 {
		t.Fatalf("expected both backend candidates, got %d", count)
	}
}

func TestCheckStateDir(t *testing.T) {
	dir := t.TempDir()
	if status := CheckStateDir(dir); !status.Available || status.Detail != "" {
		t.Fatalf("expected writable dir available, got %#v", status)
	}
	if status := CheckStateDir(filepath.Join(dir, "missing")); !status.Available || status.Detail != "will be created" {
		t.Fatalf("expected missing dir to be creatable, got %#v", status)
	}
	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if status := CheckStateDir(file); status.Available {
		t.Fatalf("expected file to fail the check, got %#v", status)
	}
}
