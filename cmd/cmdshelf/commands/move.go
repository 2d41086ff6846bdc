package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cmdshelf/cmdshelf/internal/tree"
)

var (
	moveUp       bool
	moveDown     bool
	moveTarget   string
	movePosition string
)

var moveCmd = &cobra.Command{
	Use:   "move <label-or-id>",
	Short: "Move a node within the library",
	Long: `Move a node within the library.

  cmdshelf move "compose up" --up
  cmdshelf move "compose up" --target Docker --position inside
  cmdshelf move "compose up"                # to the end of the root level`,
	Args: cobra.ExactArgs(1),
	RunE: runMove,
}

func init() {
	moveCmd.Flags().BoolVar(&moveUp, "up", false, "Swap with the previous sibling")
	moveCmd.Flags().BoolVar(&moveDown, "down", false, "Swap with the next sibling")
	moveCmd.Flags().StringVar(&moveTarget, "target", "", "Target node (label or id)")
	moveCmd.Flags().StringVar(&movePosition, "position", "", "Placement relative to the target (before|after|inside)")
}

func runMove(cmd *cobra.Command, args []string) error {
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
	id := node.NodeID()
	ctx := cmd.Context()

	switch {
	case moveUp && moveDown:
		return fmt.Errorf("--up and --down are mutually exclusive")
	case moveUp:
		err = svc.MoveUp(ctx, id)
	case moveDown:
		err = svc.MoveDown(ctx, id)
	case moveTarget != "":
		target, rerr := resolveNode(svc, moveTarget)
		if rerr != nil {
			return rerr
		}
		if movePosition == "" {
			err = svc.Drop(ctx, id, target.NodeID())
		} else {
			pos := tree.Position(movePosition)
			if pos != tree.PositionBefore && pos != tree.PositionAfter && pos != tree.PositionInside {
				return fmt.Errorf("position must be before, after or inside")
			}
			err = svc.Move(ctx, id, target.NodeID(), pos)
		}
	default:
		err = svc.Drop(ctx, id, "")
	}
	if err != nil {
		return err
	}

	fmt.Printf("moved %q\n", node.NodeLabel())
	return nil
}
