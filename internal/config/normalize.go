package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeJournal(); err != nil {
		return err
	}
	c.normalizeUpdates()
	c.normalizeNotify()
	if err := c.normalizeHistory(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeJournal() error {
	var err error
	if strings.TrimSpace(c.Journal.AllowlistPath) == "" {
		c.Journal.AllowlistPath = defaultAllowlistPath
	}
	if c.Journal.AllowlistPath, err = expandPath(c.Journal.AllowlistPath); err != nil {
		return fmt.Errorf("journal.allowlist_path: %w", err)
	}
	c.Journal.Priority = strings.ToLower(strings.TrimSpace(c.Journal.Priority))
	if c.Journal.Priority == "" {
		c.Journal.Priority = defaultJournalPriority
	}
	return nil
}

func (c *Config) normalizeUpdates() {
	c.Updates.Backend = strings.ToLower(strings.TrimSpace(c.Updates.Backend))
	if c.Updates.Backend == "" {
		c.Updates.Backend = defaultUpdatesBackend
	}
}

func (c *Config) normalizeNotify() {
	c.Notify.AppName = strings.TrimSpace(c.Notify.AppName)
	if c.Notify.AppName == "" {
		c.Notify.AppName = defaultNotifyAppName
	}
	c.Notify.TerminalCommand = strings.TrimSpace(c.Notify.TerminalCommand)
	c.Notify.OpenCommand = strings.TrimSpace(c.Notify.OpenCommand)
	if c.Notify.OpenCommand == "" {
		c.Notify.OpenCommand = defaultOpenCommand
	}
	if c.Notify.ActionWaitSeconds <= 0 {
		c.Notify.ActionWaitSeconds = defaultNotifyWaitSeconds
	}
	if c.Notify.TimeoutSeconds <= 0 {
		c.Notify.TimeoutSeconds = defaultNotifyTimeout
	}
}

func (c *Config) normalizeHistory() error {
	var err error
	c.History.Path = strings.TrimSpace(c.History.Path)
	if c.History.Path != "" {
		if c.History.Path, err = expandPath(c.History.Path); err != nil {
			return fmt.Errorf("history.path: %w", err)
		}
	}
	if c.History.RetentionRuns <= 0 {
		c.History.RetentionRuns = defaultRetentionRuns
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
