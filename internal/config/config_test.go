package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"upkeep/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantState := filepath.Join(tempHome, ".local", "state", "upkeep")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if cfg.Journal.AllowlistPath != filepath.Join(tempHome, ".config", "upkeep", "allowlist.toml") {
		t.Fatalf("unexpected allowlist path: %q", cfg.Journal.AllowlistPath)
	}
	if cfg.Journal.Priority != "err" {
		t.Fatalf("unexpected journal priority: %q", cfg.Journal.Priority)
	}
	if cfg.Updates.Backend != "auto" {
		t.Fatalf("unexpected updates backend: %q", cfg.Updates.Backend)
	}
	if !cfg.Notify.Enabled {
		t.Fatal("expected notifications enabled by default")
	}
	if cfg.Notify.AppName != "Upkeep" {
		t.Fatalf("unexpected app name: %q", cfg.Notify.AppName)
	}
	if cfg.HistoryDBPath() != filepath.Join(wantState, "history.db") {
		t.Fatalf("unexpected history path: %q", cfg.HistoryDBPath())
	}
	if cfg.JournalLogPath() != filepath.Join(wantState, "journal_new.log") {
		t.Fatalf("unexpected journal log path: %q", cfg.JournalLogPath())
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.StateDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "upkeep.toml")

	type payload struct {
		Journal struct {
			Priority string `toml:"priority"`
		} `toml:"journal"`
		Updates struct {
			Backend string `toml:"backend"`
		} `toml:"updates"`
		Notify struct {
			Actions bool `toml:"actions"`
		} `toml:"notify"`
	}
	custom := payload{}
	custom.Journal.Priority = "warning"
	custom.Updates.Backend = "apt"
	custom.Notify.Actions = false

	raw, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, raw, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if cfg.Journal.Priority != "warning" {
		t.Fatalf("unexpected journal priority: %q", cfg.Journal.Priority)
	}
	if cfg.Updates.Backend != "apt" {
		t.Fatalf("unexpected backend: %q", cfg.Updates.Backend)
	}
	if cfg.Notify.Actions {
		t.Fatal("expected actions disabled")
	}
	// Unset sections keep their defaults.
	if !cfg.Units.Enabled {
		t.Fatal("expected unit check enabled by default")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"bad priority", "[journal]\npriority = \"loud\"\n"},
		{"bad backend", "[updates]\nbackend = \"pacman\"\n"},
		{"bad log format", "[logging]\nformat = \"xml\"\n"},
		{"actions without terminal", "[notify]\nactions = true\nterminal_command = \"\"\n"},
		{"all checks disabled", "[units]\nenabled = false\n[journal]\nenabled = false\n[updates]\nenabled = false\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "upkeep.toml")
			if err := os.WriteFile(path, []byte(tc.body), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			if _, _, _, err := config.Load(path); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load of sample failed: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if cfg.Updates.Backend != "auto" {
		t.Fatalf("unexpected sample backend: %q", cfg.Updates.Backend)
	}
}
