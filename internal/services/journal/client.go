package journal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"upkeep/internal/services"
)

// Entry is one journal record from the current boot.
type Entry struct {
	Identifier string
	Message    string
	// HasMessage distinguishes an absent MESSAGE field from an empty one;
	// entries without a message are never eligible for allowlisting.
	HasMessage bool
}

type rawEntry struct {
	SyslogIdentifier string          `json:"SYSLOG_IDENTIFIER"`
	Comm             string          `json:"_COMM"`
	Message          json.RawMessage `json:"MESSAGE"`
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

// Client wraps journalctl CLI interactions.
type Client struct {
	binary   string
	priority string
	exec     services.Executor
}

// New constructs a journalctl client reporting entries at or above the given
// priority (journalctl -p semantics).
func New(binary, priority string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, services.Wrap(services.ErrConfiguration, "journal", "new", "journalctl binary required", nil)
	}
	priority = strings.TrimSpace(priority)
	if priority == "" {
		priority = "err"
	}
	client := &Client{binary: binary, priority: priority, exec: services.NewExecutor()}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// BootErrors returns this boot's journal entries at the configured priority,
// in journal order.
func (c *Client) BootErrors(ctx context.Context) ([]Entry, error) {
	out, err := c.exec.Output(ctx, c.binary, "--boot", "--priority="+c.priority, "--output=json", "--no-pager")
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "journal", "query", "run journalctl", err)
	}
	entries, err := decodeEntries(out)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "journal", "query", "parse journalctl output", err)
	}
	return entries, nil
}

// decodeEntries handles journalctl's stream of newline-delimited JSON objects.
func decodeEntries(data []byte) ([]Entry, error) {
	var entries []Entry
	decoder := json.NewDecoder(bytes.NewReader(data))
	for {
		var raw rawEntry
		if err := decoder.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				return entries, nil
			}
			return nil, err
		}

		entry := Entry{Identifier: raw.SyslogIdentifier}
		if entry.Identifier == "" {
			entry.Identifier = raw.Comm
		}
		if entry.Identifier == "" {
			entry.Identifier = "unknown"
		}
		if len(raw.Message) > 0 {
			message, ok, err := decodeMessage(raw.Message)
			if err != nil {
				return nil, err
			}
			entry.Message = message
			entry.HasMessage = ok
		}
		entries = append(entries, entry)
	}
}

// decodeMessage accepts the two encodings journald uses for MESSAGE: a JSON
// string for valid UTF-8, or an array of bytes otherwise.
func decodeMessage(raw json.RawMessage) (string, bool, error) {
	if string(raw) == "null" {
		return "", false, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true, nil
	}
	var nums []int
	if err := json.Unmarshal(raw, &nums); err != nil {
		return "", false, err
	}
	b := make([]byte, len(nums))
	for i, n := range nums {
		b[i] = byte(n)
	}
	return string(b), true, nil
}
