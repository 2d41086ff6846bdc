package terminal

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/cmdshelf/cmdshelf/internal/logging"
)

// Local keeps a single shell process alive across sends and writes command
// text to its stdin. The process is spawned on first use and respawned when
// it has exited; only one logical caller touches it at a time.
type Local struct {
	name  string
	shell string

	mu    sync.Mutex
	cmd   *exec.Cmd
	stdin io.WriteCloser
}

// NewLocal creates a local terminal sink. An empty shell selects the
// detected default.
func NewLocal(name, shell string) *Local {
	if name == "" {
		name = "cmdshelf"
	}
	if shell == "" {
		shell = DetectShell()
	}
	return &Local{name: name, shell: shell}
}

func (l *Local) Name() string { return l.name }

// Send writes the command text followed by a newline to the shell's stdin.
func (l *Local) Send(ctx context.Context, text string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.ensureProcess(); err != nil {
		return fmt.Errorf("failed to start shell: %w", err)
	}

	if _, err := io.WriteString(l.stdin, text+"\n"); err != nil {
		// The shell likely died between the liveness check and the write;
		// drop the handle so the next send respawns.
		l.cmd = nil
		l.stdin = nil
		return fmt.Errorf("failed to write to shell: %w", err)
	}

	logging.Debug().Str("terminal", l.name).Str("command", text).Msg("command sent to local shell")
	return nil
}

// ensureProcess spawns the shell when absent. Callers hold l.mu.
func (l *Local) ensureProcess() error {
	if l.cmd != nil {
		return nil
	}

	cmd := exec.Command(l.shell)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return err
	}

	if err := cmd.Start(); err != nil {
		stdin.Close()
		return err
	}

	l.cmd = cmd
	l.stdin = stdin
	logging.Info().Str("terminal", l.name).Str("shell", l.shell).Int("pid", cmd.Process.Pid).Msg("shell started")

	// Clear the handle once the process exits so the next send respawns.
	go func(c *exec.Cmd) {
		c.Wait()
		l.mu.Lock()
		if l.cmd == c {
			l.cmd = nil
			l.stdin = nil
		}
		l.mu.Unlock()
	}(cmd)

	return nil
}

// Close terminates the shell process if one is running.
func (l *Local) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cmd == nil {
		return nil
	}
	l.stdin.Close()
	err := l.cmd.Process.Kill()
	l.cmd = nil
	l.stdin = nil
	return err
}
