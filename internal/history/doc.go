// Package history persists a bounded record of maintenance runs in SQLite so
// `upkeep status` and `upkeep history` can answer questions after the
// notification is gone.
package history
