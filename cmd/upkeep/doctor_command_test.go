package main

import (
	"path/filepath"
	"testing"

	"upkeep/internal/testsupport"
)

func TestDoctorWithStubbedDependencies(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries("systemctl", "journalctl", "checkupdates"))
	configPath := filepath.Join(testsupport.BaseDir(cfg), "config.toml")
	writeTestConfig(t, configPath, cfg)

	out, _, err := runCLI(t, []string{"doctor"}, configPath)
	if err != nil {
		t.Fatalf("doctor: %v", err)
	}
	requireContains(t, out, "systemctl")
	requireContains(t, out, "All dependencies look good")
	requireContains(t, out, "disabled in configuration")
}
