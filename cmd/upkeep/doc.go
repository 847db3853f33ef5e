// Package main hosts the upkeep CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into
// maintenance passes, single-check runs, history queries, allowlist
// inspection, and configuration scaffolding. It centralizes configuration
// resolution and logging setup so subcommands can focus on presentation.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
