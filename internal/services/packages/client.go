package packages

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"upkeep/internal/services"
)

// Package is one pending upgrade.
type Package struct {
	Name      string
	Current   string
	Candidate string
}

// Backend selects the package query tool.
type Backend string

const (
	BackendAuto         Backend = "auto"
	BackendCheckupdates Backend = "checkupdates"
	BackendAPT          Backend = "apt"
	BackendNone         Backend = "none"
)

// checkupdates exits 2 when there is nothing to upgrade.
const checkupdatesNoUpdates = 2

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

// WithLookPath overrides binary discovery for backend auto-detection.
func WithLookPath(lookPath func(string) (string, error)) Option {
	return func(c *Client) {
		if lookPath != nil {
			c.lookPath = lookPath
		}
	}
}

// Client wraps the upgradable-package query tools.
type Client struct {
	backend  Backend
	exec     services.Executor
	lookPath func(string) (string, error)
}

// New constructs a package query client for the configured backend.
func New(backend string, opts ...Option) (*Client, error) {
	b := Backend(strings.ToLower(strings.TrimSpace(backend)))
	switch b {
	case BackendAuto, BackendCheckupdates, BackendAPT, BackendNone:
	case "":
		b = BackendAuto
	default:
		return nil, services.Wrap(services.ErrConfiguration, "updates", "new", fmt.Sprintf("unknown backend %q", backend), nil)
	}
	client := &Client{backend: b, exec: services.NewExecutor(), lookPath: exec.LookPath}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Upgradable returns the packages with a pending upgrade. Backend auto probes
// checkupdates first, then apt.
func (c *Client) Upgradable(ctx context.Context) ([]Package, error) {
	backend := c.backend
	if backend == BackendAuto {
		resolved, err := c.detect()
		if err != nil {
			return nil, err
		}
		backend = resolved
	}

	switch backend {
	case BackendCheckupdates:
		return c.queryCheckupdates(ctx)
	case BackendAPT:
		return c.queryAPT(ctx)
	case BackendNone:
		return nil, nil
	default:
		return nil, services.Wrap(services.ErrConfiguration, "updates", "query", fmt.Sprintf("unsupported backend %q", backend), nil)
	}
}

func (c *Client) detect() (Backend, error) {
	if _, err := c.lookPath("checkupdates"); err == nil {
		return BackendCheckupdates, nil
	}
	if _, err := c.lookPath("apt"); err == nil {
		return BackendAPT, nil
	}
	return "", services.Wrap(services.ErrUnavailable, "updates", "detect", "neither checkupdates nor apt found", nil)
}

func (c *Client) queryCheckupdates(ctx context.Context) ([]Package, error) {
	out, err := c.exec.Output(ctx, "checkupdates")
	if err != nil {
		var cmdErr *services.CommandError
		if errors.As(err, &cmdErr) && cmdErr.ExitCode == checkupdatesNoUpdates {
			return nil, nil
		}
		return nil, services.Wrap(services.ErrExternalTool, "updates", "query", "run checkupdates", err)
	}
	return parseCheckupdates(string(out)), nil
}

// parseCheckupdates reads "name current -> candidate" lines.
func parseCheckupdates(out string) []Package {
	var pkgs []Package
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) != 4 || fields[2] != "->" {
			continue
		}
		pkgs = append(pkgs, Package{Name: fields[0], Current: fields[1], Candidate: fields[3]})
	}
	return pkgs
}

func (c *Client) queryAPT(ctx context.Context) ([]Package, error) {
	out, err := c.exec.Output(ctx, "apt", "list", "--upgradable")
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "updates", "query", "run apt", err)
	}
	return parseAptList(string(out)), nil
}

// parseAptList reads "name/suite candidate arch [upgradable from: current]"
// lines, skipping the "Listing..." header.
func parseAptList(out string) []Package {
	var pkgs []Package
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "Listing") {
			continue
		}
		name, rest, ok := strings.Cut(line, "/")
		if !ok {
			continue
		}
		fields := strings.Fields(rest)
		if len(fields) < 2 {
			continue
		}
		pkg := Package{Name: name, Candidate: fields[1]}
		if idx := strings.Index(line, "[upgradable from: "); idx >= 0 {
			current := line[idx+len("[upgradable from: "):]
			pkg.Current = strings.TrimSuffix(current, "]")
		}
		pkgs = append(pkgs, pkg)
	}
	return pkgs
}
