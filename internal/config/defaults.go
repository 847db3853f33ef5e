package config

const (
	defaultStateDir          = "~/.local/state/upkeep"
	defaultLogDir            = "~/.local/state/upkeep/logs"
	defaultAllowlistPath     = "~/.config/upkeep/allowlist.toml"
	defaultJournalPriority   = "err"
	defaultUpdatesBackend    = "auto"
	defaultNotifyAppName     = "Upkeep"
	defaultNotifyWaitSeconds = 30
	defaultNotifyTimeout     = 10
	defaultTerminalCommand   = "kgx"
	defaultOpenCommand       = "xdg-open"
	defaultRetentionRuns     = 200
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Units: Units{
			Enabled: true,
		},
		Journal: Journal{
			Enabled:       true,
			AllowlistPath: defaultAllowlistPath,
			Priority:      defaultJournalPriority,
		},
		Updates: Updates{
			Enabled: true,
			Backend: defaultUpdatesBackend,
		},
		Notify: Notify{
			Enabled:            true,
			AppName:            defaultNotifyAppName,
			Actions:            true,
			ActionWaitSeconds:  defaultNotifyWaitSeconds,
			TerminalCommand:    defaultTerminalCommand,
			OpenCommand:        defaultOpenCommand,
			FallbackNotifySend: true,
			TimeoutSeconds:     defaultNotifyTimeout,
		},
		History: History{
			Enabled:       true,
			RetentionRuns: defaultRetentionRuns,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
