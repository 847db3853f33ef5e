// Package report turns check results into the notification payloads the
// desktop sees: one message per check with findings, plus a single summary
// for any checks that were unavailable.
package report
