package systemd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"upkeep/internal/services"
)

// Unit describes one entry from systemctl's failed-unit listing.
type Unit struct {
	Unit        string `json:"unit"`
	Description string `json:"description"`
	Load        string `json:"load"`
	Active      string `json:"active"`
	Sub         string `json:"sub"`
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec services.Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithUserUnits also queries the per-user systemd manager.
func WithUserUnits(enabled bool) Option {
	return func(c *Client) {
		c.userUnits = enabled
	}
}

// Client wraps systemctl CLI interactions.
type Client struct {
	binary    string
	userUnits bool
	exec      services.Executor
}

// New constructs a systemctl client.
func New(binary string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, services.Wrap(services.ErrConfiguration, "units", "new", "systemctl binary required", nil)
	}
	client := &Client{binary: binary, exec: services.NewExecutor()}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// FailedUnits returns the units systemd reports as failed, system manager
// first, then the user manager when enabled.
func (c *Client) FailedUnits(ctx context.Context) ([]Unit, error) {
	units, err := c.query(ctx, false)
	if err != nil {
		return nil, err
	}
	if c.userUnits {
		userUnits, err := c.query(ctx, true)
		if err != nil {
			return nil, err
		}
		units = append(units, userUnits...)
	}
	return units, nil
}

func (c *Client) query(ctx context.Context, user bool) ([]Unit, error) {
	args := []string{"--failed", "--output=json", "--no-pager"}
	if user {
		args = append([]string{"--user"}, args...)
	}

	out, err := c.exec.Output(ctx, c.binary, args...)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "units", "query", "run systemctl", err)
	}

	trimmed := strings.TrimSpace(string(out))
	if trimmed == "" {
		return nil, nil
	}

	var units []Unit
	if err := json.Unmarshal([]byte(trimmed), &units); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "units", "query", fmt.Sprintf("parse systemctl output (%d bytes)", len(trimmed)), err)
	}
	return units, nil
}
