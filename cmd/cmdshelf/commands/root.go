// Package commands provides the CLI commands for cmdshelf.
package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cmdshelf/cmdshelf/internal/clipboard"
	"github.com/cmdshelf/cmdshelf/internal/config"
	"github.com/cmdshelf/cmdshelf/internal/library"
	"github.com/cmdshelf/cmdshelf/internal/logging"
	"github.com/cmdshelf/cmdshelf/internal/storage"
	"github.com/cmdshelf/cmdshelf/internal/terminal"
	"github.com/cmdshelf/cmdshelf/pkg/types"
)

var (
	// Version information set at build time
	Version   = "0.1.0"
	BuildTime = "dev"
)

// Global flags
var (
	logLevel string
	dataDir  string
)

var rootCmd = &cobra.Command{
	Use:   "cmdshelf",
	Short: "cmdshelf - organize and run your shell commands",
	Long: `cmdshelf keeps your shell commands in an ordered library of
commands and groups, shared between the CLI, editor panels and MCP clients.

Run 'cmdshelf add' to save a command, 'cmdshelf run' to execute one, or
'cmdshelf serve' to start the panel API server.`,
	Version: Version,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (DEBUG|INFO|WARN|ERROR)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "Data directory (default: XDG data dir)")

	rootCmd.SetVersionTemplate(fmt.Sprintf("cmdshelf %s (%s)\n", Version, BuildTime))

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(groupCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(copyCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(renameCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(findCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(mcpCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig loads configuration and applies the global flag overrides.
func loadConfig() (*types.Config, error) {
	workDir, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(workDir)
	if err != nil {
		return nil, err
	}
	if dataDir != "" {
		cfg.Data = dataDir
	}
	if logLevel != "" {
		if cfg.Log == nil {
			cfg.Log = &types.LogConfig{}
		}
		cfg.Log.Level = logLevel
	}
	return cfg, nil
}

// initLogging configures the global logger from config.
func initLogging(cfg *types.Config) {
	logCfg := logging.DefaultConfig()
	if cfg.Log != nil {
		if cfg.Log.Level != "" {
			logCfg.Level = logging.ParseLevel(cfg.Log.Level)
		}
		logCfg.Pretty = cfg.Log.Pretty
	}
	logging.Init(logCfg)
}

// newService builds a loaded command service with sinks resolved from
// configuration. CLI commands run against the local shell and the system
// clipboard unless configured for bus mode.
func newService(ctx context.Context, cfg *types.Config) (*library.Service, error) {
	store := storage.New(config.StorageDir(cfg))

	svc := library.NewService(store,
		library.WithTerminal(terminalSink(cfg)),
		library.WithClipboard(clipboardWriter(cfg)),
	)
	if err := svc.Load(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}

func terminalSink(cfg *types.Config) library.TerminalSink {
	name := "cmdshelf"
	shell := terminal.DetectShell()
	mode := types.TerminalModeLocal
	if cfg.Terminal != nil {
		if cfg.Terminal.Name != "" {
			name = cfg.Terminal.Name
		}
		if cfg.Terminal.Shell != "" {
			shell = cfg.Terminal.Shell
		}
		if cfg.Terminal.Mode != "" {
			mode = cfg.Terminal.Mode
		}
	}

	if mode == types.TerminalModeBus {
		return terminal.NewBus(name)
	}
	return terminal.NewLocal(name, shell)
}

func clipboardWriter(cfg *types.Config) clipboard.Writer {
	if cfg.Clipboard != nil && cfg.Clipboard.Mode == types.ClipboardModeBus {
		return clipboard.NewBus()
	}
	return clipboard.NewSystem()
}

// resolveNode finds a node by id first, then by exact label. Returns a
// "did you mean" error on a near miss.
func resolveNode(svc *library.Service, ref string) (types.TreeNode, error) {
	if node, ok := svc.Find(ref); ok {
		return node, nil
	}
	if found := findByLabel(svc.Data(), ref); found != nil {
		return found, nil
	}
	if suggestion, ok := svc.Suggest(ref); ok {
		return nil, fmt.Errorf("no command %q, did you mean %q?", ref, suggestion)
	}
	return nil, fmt.Errorf("no command %q", ref)
}

func findByLabel(nodes []types.TreeNode, label string) types.TreeNode {
	for _, n := range nodes {
		if n.NodeLabel() == label {
			return n
		}
		if g, ok := n.(*types.CommandGroup); ok {
			if found := findByLabel(g.Children, label); found != nil {
				return found
			}
		}
	}
	return nil
}
