package resident

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

const (
	// ExitCodeCancelled is the exit status of a capture the user cancelled.
	ExitCodeCancelled = 3

	CaptureCommand = "capture"
	StdoutFlag     = "--stdout"
	PrintPathFlag  = "--print-path"
)

// ProcessLauncher runs every capture in a child process of Executable, since
// the overlay toolkit can start its event loop only once per process.
type ProcessLauncher struct {
	Executable string
	// Args go between the executable and the capture flags.
	Args []string
	// Stderr receives the child's stderr; discarded when nil.
	Stderr io.Writer
	// Env is the child's environment; the current one when nil.
	Env []string
}

// NewProcessLauncher re-executes the running binary with "capture".
func NewProcessLauncher() (*ProcessLauncher, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("locate executable: %w", err)
	}
	return &ProcessLauncher{Executable: exe, Args: []string{CaptureCommand}}, nil
}

func (l *ProcessLauncher) Launch(ctx context.Context, req Request) ([]byte, error) {
	args := append([]string(nil), l.Args...)
	if req.OutputToStdout {
		args = append(args, StdoutFlag)
	} else {
		args = append(args, PrintPathFlag)
	}

	cmd := exec.CommandContext(ctx, l.Executable, args...)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = l.Stderr
	cmd.Env = l.Env

	err := cmd.Run()
	var exitErr *exec.ExitError
	switch {
	case errors.As(err, &exitErr) && exitErr.ExitCode() == ExitCodeCancelled:
		return nil, ErrCancelled
	case err != nil:
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("capture process: %w", err)
	}

	if req.OutputToStdout {
		return stdout.Bytes(), nil
	}
	return []byte(strings.TrimSpace(stdout.String())), nil
}
