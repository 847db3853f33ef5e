package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	StateDir string `toml:"state_dir"`
	LogDir   string `toml:"log_dir"`
}

// Units contains configuration for the failed-unit check.
type Units struct {
	Enabled bool `toml:"enabled"`
	// UserUnits includes the per-user systemd manager in addition to the
	// system manager.
	UserUnits bool `toml:"user_units"`
}

// Journal contains configuration for the boot journal error check.
type Journal struct {
	Enabled       bool   `toml:"enabled"`
	AllowlistPath string `toml:"allowlist_path"`
	// Priority is the maximum journal priority to report (journalctl -p value).
	Priority string `toml:"priority"`
}

// Updates contains configuration for the pending-upgrade check.
type Updates struct {
	Enabled bool `toml:"enabled"`
	// Backend selects the package query tool: auto, checkupdates, apt, or none.
	Backend string `toml:"backend"`
	// UpgradeCommand is run in the investigation terminal when the updates
	// notification action is invoked. Empty disables the action.
	UpgradeCommand string `toml:"upgrade_command"`
}

// Notify contains desktop notification configuration.
type Notify struct {
	Enabled bool   `toml:"enabled"`
	AppName string `toml:"app_name"`
	// Actions enables clickable notification actions; when invoked, upkeep
	// spawns the configured investigation commands.
	Actions           bool   `toml:"actions"`
	ActionWaitSeconds int    `toml:"action_wait_seconds"`
	TerminalCommand   string `toml:"terminal_command"`
	OpenCommand       string `toml:"open_command"`
	// FallbackNotifySend shells out to notify-send when the session bus is
	// unreachable.
	FallbackNotifySend bool `toml:"fallback_notify_send"`
	// TimeoutSeconds is how long a notification stays on screen. Zero defers
	// to the notification daemon's default.
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// History contains configuration for the run history database.
type History struct {
	Enabled       bool   `toml:"enabled"`
	Path          string `toml:"path"`
	RetentionRuns int    `toml:"retention_runs"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for upkeep.
//
// Configuration sections by subsystem:
//   - Paths: state and log directories
//   - Units: failed systemd unit check
//   - Journal: boot journal error check and allowlist location
//   - Updates: pending package upgrade check
//   - Notify: desktop notification delivery and actions
//   - History: run history persistence
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	Units   Units   `toml:"units"`
	Journal Journal `toml:"journal"`
	Updates Updates `toml:"updates"`
	Notify  Notify  `toml:"notify"`
	History History `toml:"history"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/upkeep/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath("~/.config/upkeep/config.toml")
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("upkeep.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for a run.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// SystemctlBinary returns the systemctl executable name.
func (c *Config) SystemctlBinary() string {
	return "systemctl"
}

// JournalctlBinary returns the journalctl executable name.
func (c *Config) JournalctlBinary() string {
	return "journalctl"
}

// HistoryDBPath returns the resolved run history database path.
func (c *Config) HistoryDBPath() string {
	if strings.TrimSpace(c.History.Path) != "" {
		return c.History.Path
	}
	return filepath.Join(c.Paths.StateDir, "history.db")
}

// JournalLogPath returns the path of the unmatched journal error log written
// each run.
func (c *Config) JournalLogPath() string {
	return filepath.Join(c.Paths.StateDir, "journal_new.log")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	sample := sampleConfig

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
