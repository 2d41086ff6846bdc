package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cmdshelf/cmdshelf/pkg/types"
)

var (
	addLabel       string
	addDescription string
	addParent      string
)

var addCmd = &cobra.Command{
	Use:   "add <command...>",
	Short: "Save a shell command to the library",
	Long: `Save a shell command to the library. The command text is stored
verbatim. When no label is given, one is derived from the command.

  cmdshelf add docker-compose up -d
  cmdshelf add --label "start stack" --parent Docker docker-compose up -d`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVarP(&addLabel, "label", "l", "", "Display label")
	addCmd.Flags().StringVarP(&addDescription, "description", "d", "", "Description")
	addCmd.Flags().StringVar(&addParent, "parent", "", "Parent group (label or id)")
}

func runAdd(cmd *cobra.Command, args []string) error {
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
	if addParent != "" {
		node, err := resolveNode(svc, addParent)
		if err != nil {
			return err
		}
		if node.NodeType() != types.NodeTypeGroup {
			return fmt.Errorf("%q is not a group", addParent)
		}
		parentID = node.NodeID()
	}

	commandText := strings.Join(args, " ")
	item, err := svc.AddCommand(cmd.Context(), addLabel, commandText, addDescription, parentID)
	if err != nil {
		return err
	}

	fmt.Printf("added %q (%s)\n", item.Label, item.ID)
	return nil
}
