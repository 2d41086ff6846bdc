package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cmdshelf/cmdshelf/pkg/types"
)

var renameCmd = &cobra.Command{
	Use:   "rename <group-label-or-id> <new-label>",
	Short: "Rename a group",
	Args:  cobra.ExactArgs(2),
	RunE:  runRename,
}

func runRename(cmd *cobra.Command, args []string) error {
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
	if node.NodeType() != types.NodeTypeGroup {
		return fmt.Errorf("%q is a command, use 'cmdshelf edit' instead", args[0])
	}

	if err := svc.RenameGroup(cmd.Context(), node.NodeID(), args[1]); err != nil {
		return err
	}

	fmt.Printf("renamed %q to %q\n", args[0], args[1])
	return nil
}
