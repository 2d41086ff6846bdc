package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cmdshelf/cmdshelf/pkg/types"
)

var copyCmd = &cobra.Command{
	Use:   "copy <label-or-id>",
	Short: "Copy a saved command's text to the clipboard",
	Args:  cobra.ExactArgs(1),
	RunE:  runCopy,
}

func runCopy(cmd *cobra.Command, args []string) error {
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
		return fmt.Errorf("%q is a group, only commands can be copied", args[0])
	}

	if err := svc.Copy(cmd.Context(), item.ID); err != nil {
		return err
	}

	fmt.Printf("copied %q\n", item.Label)
	return nil
}
