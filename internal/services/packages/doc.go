// Package packages queries the distribution package manager for pending
// upgrades. checkupdates (Arch) and apt (Debian family) are supported, with
// auto-detection between them.
package packages
