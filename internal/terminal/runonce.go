package terminal

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"syscall"
	"time"
)

const (
	DefaultRunTimeout = 120 * time.Second
	MaxRunTimeout     = 10 * time.Minute
	MaxOutputLength   = 30000
	SigkillTimeout    = 200 * time.Millisecond
)

// RunResult holds the outcome of a foreground execution.
type RunResult struct {
	Output   string
	ExitCode int
	TimedOut bool
}

// RunOnce executes command text in a fresh shell and captures combined
// output. Used by the CLI for foreground runs; panel runs go through a Sink
// instead.
func RunOnce(ctx context.Context, shell, command string, timeout time.Duration) (*RunResult, error) {
	if shell == "" {
		shell = DetectShell()
	}
	if timeout <= 0 {
		timeout = DefaultRunTimeout
	}
	if timeout > MaxRunTimeout {
		timeout = MaxRunTimeout
	}

	cmdCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.CommandContext(cmdCtx, shell, "/c", command)
	} else {
		cmd = exec.CommandContext(cmdCtx, shell, "-c", command)
	}

	cmd.Env = os.Environ()

	// Set process group for Unix (allows killing child processes)
	if runtime.GOOS != "windows" {
		cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	}

	output, err := cmd.CombinedOutput()
	timedOut := cmdCtx.Err() == context.DeadlineExceeded

	result := string(output)
	if len(result) > MaxOutputLength {
		result = result[:MaxOutputLength] + "\n\n(Output truncated)"
	}

	if timedOut {
		result += fmt.Sprintf("\n\n(Command timed out after %v)", timeout)
	}

	exitCode := 0
	if cmd.ProcessState != nil {
		exitCode = cmd.ProcessState.ExitCode()
	}

	if err != nil && !timedOut {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			return nil, fmt.Errorf("failed to run command: %w", err)
		}
	}

	return &RunResult{
		Output:   result,
		ExitCode: exitCode,
		TimedOut: timedOut,
	}, nil
}
