package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cmdshelf/cmdshelf/internal/tree"
	"github.com/cmdshelf/cmdshelf/pkg/types"
)

var (
	editLabel       string
	editCommand     string
	editDescription string
)

var editCmd = &cobra.Command{
	Use:   "edit <label-or-id>",
	Short: "Edit a saved command",
	Long: `Edit a saved command. Only the fields given as flags change.

  cmdshelf edit "compose up" --command "docker-compose up -d --build"`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().StringVarP(&editLabel, "label", "l", "", "New label")
	editCmd.Flags().StringVarP(&editCommand, "command", "c", "", "New command text")
	editCmd.Flags().StringVarP(&editDescription, "description", "d", "", "New description")
}

func runEdit(cmd *cobra.Command, args []string) error {
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
	if node.NodeType() != types.NodeTypeCommand {
		return fmt.Errorf("%q is a group, use 'cmdshelf rename' instead", args[0])
	}

	var patch tree.Patch
	if cmd.Flags().Changed("label") {
		patch.Label = &editLabel
	}
	if cmd.Flags().Changed("command") {
		patch.Command = &editCommand
	}
	if cmd.Flags().Changed("description") {
		patch.Description = &editDescription
	}
	if patch.IsEmpty() {
		return fmt.Errorf("nothing to change, pass --label, --command or --description")
	}

	if err := svc.EditCommand(cmd.Context(), node.NodeID(), patch); err != nil {
		return err
	}

	fmt.Printf("updated %q\n", node.NodeLabel())
	return nil
}
