// Package terminal provides the named terminal-like sinks that accept raw
// command text from run operations.
package terminal

import (
	"context"
	"os"
	"os/exec"
	"runtime"
)

// Sink accepts raw command text for a terminal.
type Sink interface {
	// Name returns the terminal display name.
	Name() string
	// Send hands command text to the terminal. No tree mutation, no
	// persistence.
	Send(ctx context.Context, text string) error
}

// DetectShell returns the shell binary to use for local execution.
func DetectShell() string {
	if s := os.Getenv("SHELL"); s != "" {
		// Exclude unsupported shells
		if s != "/bin/fish" && s != "/usr/bin/fish" &&
			s != "/bin/nu" && s != "/usr/bin/nu" {
			return s
		}
	}

	if runtime.GOOS == "darwin" {
		return "/bin/zsh"
	}
	if runtime.GOOS == "windows" {
		if comspec := os.Getenv("COMSPEC"); comspec != "" {
			return comspec
		}
		return "cmd.exe"
	}

	if bash, err := exec.LookPath("bash"); err == nil {
		return bash
	}

	return "/bin/sh"
}
