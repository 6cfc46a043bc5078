package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"sceneforge/internal/application/commands"
	"sceneforge/internal/config"
)

var indexCmd = &cobra.Command{
	Use:   "index [dir]",
	Short: "Index the scenes under a directory",
	Long: `Load every *.scene file under a directory (default: the search
path) and record its entities and conflict flags in the scene index.
Scenes that fail to load are reported and skipped.

Examples:
  sceneforge-cli index
  sceneforge-cli index ~/projects/game/levels`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := rt.Config.SearchPath
		if len(args) == 1 {
			dir = config.ExpandHome(args[0])
		}

		idx, err := rt.OpenIndex()
		if err != nil {
			return err
		}
		defer idx.Close()

		stats, err := commands.NewIndexScenesCommand(rt.Loader, idx, dir, rt.Log).Execute(context.Background())
		if err != nil {
			return err
		}

		fmt.Printf("Indexed %d scenes (%d entities) from %d files in %s",
			stats.ScenesIndexed, stats.EntitiesIndexed, stats.FilesScanned, stats.Duration.Round(time.Millisecond))
		if stats.ScenesFailed > 0 {
			fmt.Printf(", %d failed", stats.ScenesFailed)
		}
		fmt.Println()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
}
