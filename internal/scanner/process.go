package scanner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

var (
	// ErrToolNotFound is returned when the executable cannot be located or started.
	ErrToolNotFound = errors.New("tool not found")
	// ErrTimeout is returned when the context deadline elapsed before the process exited.
	ErrTimeout = errors.New("timeout")
)

// Command is an argument vector for one process. It is never passed through a shell.
type Command struct {
	Name string
	Args []string
	// Dir is the working directory; empty means the current directory.
	Dir string
}

func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// ProcessResult captures what a finished process produced. A non-zero
// ExitCode is data, not an error.
type ProcessResult struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
	Duration time.Duration
}

// ProcessRunner executes external commands.
// Run returns an error only when the process could not be started
// (ErrToolNotFound), or did not finish before ctx was done (ErrTimeout, or
// the context's error).
type ProcessRunner interface {
	Run(ctx context.Context, c Command) (ProcessResult, error)
}

// ExecRunner implements ProcessRunner with os/exec.
type ExecRunner struct {
	// BinDir is searched before $PATH.
	BinDir string
	// WaitDelay bounds how long to wait for output pipes after a kill.
	WaitDelay time.Duration
}

// NewExecRunner returns an ExecRunner that resolves binaries from binDir first.
func NewExecRunner(binDir string) *ExecRunner {
	return &ExecRunner{BinDir: binDir, WaitDelay: 2 * time.Second}
}

func (r *ExecRunner) Run(ctx context.Context, c Command) (ProcessResult, error) {
	name := resolveBinary(c.Name, r.BinDir)

	// nosemgrep: go.lang.security.audit.dangerous-exec-command.dangerous-exec-command
	cmd := exec.CommandContext(ctx, name, c.Args...)
	cmd.Dir = c.Dir
	cmd.WaitDelay = r.WaitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	res := ProcessResult{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Duration: time.Since(start),
	}
	if err == nil {
		return res, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		res.ExitCode = -1
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return res, fmt.Errorf("%w: %s after %s", ErrTimeout, c.Name, res.Duration.Round(time.Millisecond))
		}
		return res, fmt.Errorf("running %s: %w", c.Name, ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}

	res.ExitCode = -1
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
		return res, fmt.Errorf("%w: %s: %v", ErrToolNotFound, c.Name, err)
	}
	return res, fmt.Errorf("starting %s: %w", c.Name, err)
}

// resolveBinary returns the full path of name from binDir or PATH.
func resolveBinary(name, binDir string) string {
	if strings.Contains(name, "/") {
		return name
	}
	if binDir != "" {
		candidate := filepath.Join(binDir, name)
		if p, err := exec.LookPath(candidate); err == nil {
			return p
		}
	}
	if p, err := exec.LookPath(name); err == nil {
		return p
	}
	// Return name and let exec fail with a clean ErrNotFound.
	return name
}

// LookupBinary reports the resolved path of name, or "" when it cannot be found.
func LookupBinary(name, binDir string) string {
	p := resolveBinary(name, binDir)
	if p == name && !strings.Contains(name, "/") {
		return ""
	}
	if _, err := exec.LookPath(p); err != nil {
		return ""
	}
	return p
}
