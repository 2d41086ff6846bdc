package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cmdshelf/cmdshelf/pkg/types"
)

var groupParent string

var groupCmd = &cobra.Command{
	Use:   "group <label>",
	Short: "Create a group for organizing commands",
	Args:  cobra.ExactArgs(1),
	RunE:  runGroup,
}

func init() {
	groupCmd.Flags().StringVar(&groupParent, "parent", "", "Parent group (label or id)")
}

func runGroup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	initLogging(cfg)

	svc, err := newService(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	parentID := ""
	if groupParent != "" {
		node, err := resolveNode(svc, groupParent)
		if err != nil {
			return err
		}
		if node.NodeType() != types.NodeTypeGroup {
			return fmt.Errorf("%q is not a group", groupParent)
		}
		parentID = node.NodeID()
	}

	group, err := svc.AddGroup(cmd.Context(), args[0], parentID)
	if err != nil {
		return err
	}

	fmt.Printf("created group %q (%s)\n", group.Label, group.ID)
	return nil
}
