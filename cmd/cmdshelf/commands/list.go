package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cmdshelf/cmdshelf/pkg/types"
)

var listShowIDs bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the command library as a tree",
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listShowIDs, "ids", false, "Show node identifiers")
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	initLogging(cfg)

	svc, err := newService(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	forest := svc.Data()
	if len(forest) == 0 {
		fmt.Println("library is empty, add a command with 'cmdshelf add'")
		return nil
	}

	printForest(forest, 0)
	return nil
}

func printForest(nodes []types.TreeNode, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, n := range nodes {
		switch node := n.(type) {
		case *types.CommandGroup:
			fmt.Printf("%s%s/%s\n", indent, node.Label, idSuffix(node.ID))
			printForest(node.Children, depth+1)
		case *types.CommandItem:
			fmt.Printf("%s%s: %s%s\n", indent, node.Label, node.Command, idSuffix(node.ID))
		}
	}
}

func idSuffix(id string) string {
	if !listShowIDs {
		return ""
	}
	return fmt.Sprintf("  [%s]", id)
}
