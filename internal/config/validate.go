package config

import (
	"errors"
	"fmt"
)

var validJournalPriorities = map[string]struct{}{
	"emerg": {}, "alert": {}, "crit": {}, "err": {},
	"warning": {}, "notice": {}, "info": {}, "debug": {},
}

var validUpdateBackends = map[string]struct{}{
	"auto": {}, "checkupdates": {}, "apt": {}, "none": {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateJournal(); err != nil {
		return err
	}
	if err := c.validateUpdates(); err != nil {
		return err
	}
	if err := c.validateNotify(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if !c.Units.Enabled && !c.Journal.Enabled && !c.Updates.Enabled {
		return errors.New("at least one check must be enabled")
	}
	return nil
}

func (c *Config) validateJournal() error {
	if _, ok := validJournalPriorities[c.Journal.Priority]; !ok {
		return fmt.Errorf("journal.priority: unsupported value %q", c.Journal.Priority)
	}
	return nil
}

func (c *Config) validateUpdates() error {
	if _, ok := validUpdateBackends[c.Updates.Backend]; !ok {
		return fmt.Errorf("updates.backend: unsupported value %q (auto, checkupdates, apt, or none)", c.Updates.Backend)
	}
	return nil
}

func (c *Config) validateNotify() error {
	if !c.Notify.Enabled {
		return nil
	}
	if c.Notify.Actions && c.Notify.TerminalCommand == "" {
		return errors.New("notify.terminal_command must be set when notify.actions is true")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
