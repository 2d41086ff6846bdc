package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cmdshelf/cmdshelf/internal/terminal"
	"github.com/cmdshelf/cmdshelf/pkg/types"
)

var (
	runTimeout  time.Duration
	runTerminal bool
)

var runCmd = &cobra.Command{
	Use:   "run <label-or-id>",
	Short: "Run a saved command",
	Long: `Run a saved command in the local shell and print its output.

With --terminal the command is handed to the configured terminal sink
instead, the way editor panels dispatch runs.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 0, "Kill the command after this duration")
	runCmd.Flags().BoolVar(&runTerminal, "terminal", false, "Dispatch to the configured terminal sink")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	initLogging(cfg)

	svc, err := newService(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	node, err := resolveNode(svc, args[0])
	if err != nil {
		return err
	}
	item, ok := node.(*types.CommandItem)
	if !ok {
		return fmt.Errorf("%q is a group, only commands can be run", args[0])
	}

	if runTerminal {
		return svc.Run(cmd.Context(), item.ID)
	}

	shell := terminal.DetectShell()
	if cfg.Terminal != nil && cfg.Terminal.Shell != "" {
		shell = cfg.Terminal.Shell
	}

	result, err := terminal.RunOnce(cmd.Context(), shell, item.Command, runTimeout)
	if err != nil {
		return err
	}

	fmt.Print(result.Output)
	if result.ExitCode != 0 {
		os.Exit(result.ExitCode)
	}
	return nil
}
