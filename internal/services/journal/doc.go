// Package journal queries journalctl for this boot's error entries and
// filters them against the configured allowlist.
package journal
