package main

import (
	"testing"
)

const testAllowlist = `[identifiers]
bluetoothd = ["Failed to set mode: .*"]
kernel = ["usb \\d+-\\d+: device descriptor read.*"]
`

func TestAllowlistListShowsPatterns(t *testing.T) {
	env := setupCLITestEnv(t)
	writeTestAllowlist(t, env.cfg.Journal.AllowlistPath, testAllowlist)

	out, _, err := runCLI(t, []string{"allowlist", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("allowlist list: %v", err)
	}
	requireContains(t, out, "bluetoothd")
	requireContains(t, out, "Failed to set mode: .*")
	requireContains(t, out, "kernel")
}

func TestAllowlistListEmpty(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"allowlist", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("allowlist list: %v", err)
	}
	requireContains(t, out, "Allowlist is empty")
}

func TestAllowlistTestMatchesFullMessage(t *testing.T) {
	env := setupCLITestEnv(t)
	writeTestAllowlist(t, env.cfg.Journal.AllowlistPath, testAllowlist)

	out, _, err := runCLI(t, []string{"allowlist", "test", "bluetoothd", "Failed to set mode: blocked"}, env.configPath)
	if err != nil {
		t.Fatalf("allowlist test: %v", err)
	}
	requireContains(t, out, "allowed: bluetoothd")

	out, _, err = runCLI(t, []string{"allowlist", "test", "bluetoothd", "something else entirely"}, env.configPath)
	if err != nil {
		t.Fatalf("allowlist test: %v", err)
	}
	requireContains(t, out, "not allowed: bluetoothd")
}
