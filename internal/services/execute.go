package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Executor abstracts command execution for testability.
type Executor interface {
	// Output runs the command and returns its stdout. A non-zero exit
	// produces a *CommandError alongside whatever stdout was captured.
	Output(ctx context.Context, binary string, args ...string) ([]byte, error)
}

// CommandError reports a command that started but exited non-zero.
type CommandError struct {
	Binary   string
	ExitCode int
	Stderr   string
}

func (e *CommandError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s exited with code %d: %s", e.Binary, e.ExitCode, e.Stderr)
	}
	return fmt.Sprintf("%s exited with code %d", e.Binary, e.ExitCode)
}

// NewExecutor returns the exec-backed executor used outside tests.
func NewExecutor() Executor {
	return commandExecutor{}
}

type commandExecutor struct{}

func (commandExecutor) Output(ctx context.Context, binary string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return stdout.Bytes(), nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return stdout.Bytes(), &CommandError{
			Binary:   binary,
			ExitCode: exitErr.ExitCode(),
			Stderr:   stderrTail(stderr.String()),
		}
	}
	return stdout.Bytes(), fmt.Errorf("run %s: %w", binary, err)
}

// stderrTail keeps error messages readable when a tool dumps pages of output.
func stderrTail(s string) string {
	s = strings.TrimSpace(s)
	const limit = 512
	if len(s) <= limit {
		return s
	}
	return "..." + s[len(s)-limit:]
}
