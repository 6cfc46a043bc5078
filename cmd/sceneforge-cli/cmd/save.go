package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sceneforge/internal/application/commands"
	"sceneforge/internal/domain"
)

var saveStdout bool

var saveCmd = &cobra.Command{
	Use:   "save <scene> [target]",
	Short: "Save a scene, optionally to a new location",
	Long: `Load a scene and write it back. With a target the scene is saved
there instead and its relative inherits and component references are
rewritten to stay valid from the new location.

Examples:
  sceneforge-cli save levels/room.scene
  sceneforge-cli save levels/room.scene levels/archive/room.scene
  sceneforge-cli save --stdout levels/room.scene`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		scene, err := loadScene(ctx, args[0])
		if err != nil {
			return err
		}

		target := ""
		if len(args) == 2 {
			if target, err = rt.ToURI(args[1]); err != nil {
				return err
			}
		}
		return saveScene(ctx, scene, target, saveStdout)
	},
}

// saveScene writes scene to target, or prints the document when stdout is set
func saveScene(ctx context.Context, scene *domain.Scene, target string, stdout bool) error {
	if stdout {
		result, err := commands.NewSaveSceneCommand(nil, scene, target).Execute(ctx)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(append(result.Data, '\n'))
		return err
	}

	result, err := commands.NewSaveSceneCommand(rt.Transport, scene, target).Execute(ctx)
	if err != nil {
		return err
	}
	fmt.Println(result.Message)
	return nil
}

func init() {
	saveCmd.Flags().BoolVar(&saveStdout, "stdout", false, "print the document instead of writing it")
	rootCmd.AddCommand(saveCmd)
}
