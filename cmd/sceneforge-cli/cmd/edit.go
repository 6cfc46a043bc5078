package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"sceneforge/internal/application/commands"
	"sceneforge/internal/domain"
)

var (
	dryRun   bool
	addIndex int
)

// editScene loads the scene argument, applies fn and saves the scene back
// to its own URI
func editScene(arg string, fn func(ctx context.Context, scene *domain.Scene) (string, error)) error {
	ctx := context.Background()
	scene, err := loadScene(ctx, arg)
	if err != nil {
		return err
	}

	message, err := fn(ctx, scene)
	if err != nil {
		return err
	}
	fmt.Println(message)

	return saveScene(ctx, scene, "", dryRun)
}

var addCmd = &cobra.Command{
	Use:   "add <scene> <parent> <name>",
	Short: "Add an entity under a parent",
	Long: `Add a new entity under a parent entity and save the scene. A name
already in use gets a numeric suffix.

Examples:
  sceneforge-cli add levels/room.scene table cup
  sceneforge-cli add --index 0 levels/room.scene world rug`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editScene(args[0], func(ctx context.Context, scene *domain.Scene) (string, error) {
			c := commands.NewAddNodeCommand(scene, commands.ByName(args[1]), args[2])
			if cmd.Flags().Changed("index") {
				c.Index = &addIndex
			}
			result, err := c.Execute(ctx)
			if err != nil {
				return "", err
			}
			return result.Message, nil
		})
	},
}

var renameCmd = &cobra.Command{
	Use:   "rename <scene> <name> <new-name>",
	Short: "Rename an entity",
	Long: `Rename an entity and save the scene. Renaming an entity to the name
of a missing parent adopts the children waiting under that parent.

Example:
  sceneforge-cli rename levels/room.scene table shelf`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editScene(args[0], func(ctx context.Context, scene *domain.Scene) (string, error) {
			result, err := commands.NewRenameNodeCommand(scene, commands.ByName(args[1]), args[2]).Execute(ctx)
			if err != nil {
				return "", err
			}
			return result.Message, nil
		})
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <scene> <name>",
	Short: "Remove an entity and its subtree",
	Long: `Remove an entity with all of its descendants and save the scene.

Example:
  sceneforge-cli rm levels/room.scene lamp`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editScene(args[0], func(ctx context.Context, scene *domain.Scene) (string, error) {
			result, err := commands.NewRemoveNodeCommand(scene, commands.ByName(args[1])).Execute(ctx)
			if err != nil {
				return "", err
			}
			return result.Message, nil
		})
	},
}

var healCmd = &cobra.Command{
	Use:   "heal <scene>",
	Short: "Reattach children of missing parents that now exist",
	Long: `Move the children of every missing parent placeholder whose real
parent exists under that parent, drop the placeholders and save.

Example:
  sceneforge-cli heal levels/room.scene`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editScene(args[0], func(ctx context.Context, scene *domain.Scene) (string, error) {
			result, err := commands.NewHealMissingCommand(scene).Execute(ctx)
			if err != nil {
				return "", err
			}
			return result.Message, nil
		})
	},
}

func init() {
	addCmd.Flags().IntVar(&addIndex, "index", 0, "position among the parent's children (default last)")
	for _, c := range []*cobra.Command{addCmd, renameCmd, rmCmd, healCmd} {
		c.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "print the resulting document instead of saving")
		rootCmd.AddCommand(c)
	}
}
