// Package allowlist loads the per-identifier patterns that mark journal
// errors as known and benign.
//
// Patterns are RE2 regexes anchored to the full message. Keying on the
// syslog identifier keeps patterns tight: a driver's noisy error never
// suppresses the same text from another source.
package allowlist
