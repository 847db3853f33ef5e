// Package maintenance orchestrates a full pass: it takes the single
// instance lock, fans the enabled checks out, composes notifications for
// the findings, and records the run in history.
package maintenance
