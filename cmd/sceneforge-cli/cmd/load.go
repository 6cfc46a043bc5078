package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var loadCmd = &cobra.Command{
	Use:   "load <scene>",
	Short: "Load a scene and print a summary",
	Long: `Load a scene with its whole inheritance chain and print where each
level comes from, how many entities the composed tree has and whether
it has conflicts.

Example:
  sceneforge-cli load levels/room.scene`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		scene, err := loadScene(ctx, args[0])
		if err != nil {
			return err
		}

		field := func(label string, value any) {
			fmt.Printf("%-10s %v\n", label+":", value)
		}
		field("scene", scene.URI)
		for i := len(scene.Chain) - 1; i >= 0; i-- {
			field("inherits", scene.Chain[i])
		}
		field("root", scene.Root.Name)
		field("entities", len(scene.Nodes()))

		info := scene.ConflictInfo()
		field("missing", info.Missing)
		field("duplicate", info.Duplicate)
		if len(scene.UnknownComponents) > 0 {
			field("unknown", strings.Join(scene.UnknownComponents, ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)
}
