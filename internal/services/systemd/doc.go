// Package systemd queries systemctl for failed units.
package systemd
