package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cmdshelf/cmdshelf/pkg/types"
)

var removeForce bool

var removeCmd = &cobra.Command{
	Use:   "remove <label-or-id>",
	Short: "Remove a command or group",
	Long: `Remove a command or group. Removing a group removes everything
inside it, so non-empty groups ask for confirmation unless --force is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func init() {
	removeCmd.Flags().BoolVarP(&removeForce, "force", "f", false, "Skip confirmation")
}

func runRemove(cmd *cobra.Command, args []string) error {
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

	if group, ok := node.(*types.CommandGroup); ok && len(group.Children) > 0 && !removeForce {
		fmt.Printf("group %q contains %d entries, remove all of them? [y/N] ", group.Label, len(group.Children))
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			fmt.Println("aborted")
			return nil
		}
	}

	if err := svc.Delete(cmd.Context(), node.NodeID()); err != nil {
		return err
	}

	fmt.Printf("removed %q\n", node.NodeLabel())
	return nil
}
